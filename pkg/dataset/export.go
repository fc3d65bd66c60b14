package dataset

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hidenorly/video-annotations-to-yolo/pkg/annotation"
)

//FrameRequest asks the video decoding collaborator for one decoded frame,
//written to Dest. Frame is the local frame number in the source video
type FrameRequest struct {
	Frame int
	Dest  string
}

//FrameExtractor is the video decoding collaborator. Implementations decode the
//requested frames of a video into image files and stop at the first frame that
//cannot be decoded
type FrameExtractor interface {
	Extract(videoPath string, requests []FrameRequest) error
}

//Options configures a dataset export run
type Options struct {
	OutputBase           string
	ImageExt             string
	IncludeFinalKeyframe bool
}

type videoPlan struct {
	video    annotation.VideoAnnotation
	frames   *FrameMap
	exported []int
}

//Exporter writes the YOLO dataset for an ordered list of video annotations:
//one label file per exported frame, one image per exported frame when the source
//video is reachable, and the global classes.txt
type Exporter struct {
	opts      Options
	registry  *annotation.Registry
	extractor FrameExtractor
	plans     []videoPlan
	padding   int
}

//NewExporter plans the whole run before anything is written: every video is
//aggregated once, its availability mask applied, and the running offsets
//simulated. This determines the largest global frame index the run will ever
//produce, so every filename can be zero-padded to the same width and
//lexicographic order matches numeric order across all videos.
//extractor may be nil, in which case only label files are written
func NewExporter(videos []annotation.VideoAnnotation, registry *annotation.Registry, extractor FrameExtractor, opts Options) (*Exporter, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, errors.New("NewExporter: No labels to export")
	}
	if opts.ImageExt == "" {
		opts.ImageExt = "jpg"
	}

	e := &Exporter{opts: opts, registry: registry, extractor: extractor}

	offset, maxIndex := 0, 0
	for _, video := range videos {
		frames, err := Aggregate(video, registry)
		if err != nil {
			return nil, err
		}
		mask := BuildAvailability(video, opts.IncludeFinalKeyframe)

		exported := make([]int, 0, frames.Len())
		for _, frame := range frames.Frames() {
			if mask.Available(frame) {
				exported = append(exported, frame)
			}
		}

		if n := len(exported); n > 0 {
			if last := offset + exported[n-1]; last > maxIndex {
				maxIndex = last
			}
		}
		offset += len(exported)

		e.plans = append(e.plans, videoPlan{video: video, frames: frames, exported: exported})
	}
	e.padding = len(strconv.Itoa(maxIndex))

	return e, nil
}

//Padding returns the zero-padding width used for exported frame names
func (e *Exporter) Padding() int {
	return e.padding
}

//Export processes the planned videos in input order, threading the running
//global frame offset from one video to the next, and finally writes classes.txt.
//It returns the total number of exported frames, which also equals the final offset
func (e *Exporter) Export() (int, error) {
	for _, dir := range []string{filepath.Join(e.opts.OutputBase, "images"), filepath.Join(e.opts.OutputBase, "labels")} {
		if err := os.MkdirAll(dir, 0766); err != nil {
			return 0, fmt.Errorf("Export: Could not create '%s' directory, got '%v'", dir, err)
		}
	}

	offset := 0
	for _, plan := range e.plans {
		exported, err := e.exportVideo(plan, offset)
		if err != nil {
			return offset, err
		}
		offset += exported
	}

	if err := e.writeClasses(); err != nil {
		return offset, err
	}

	return offset, nil
}

func (e *Exporter) exportVideo(plan videoPlan, offset int) (int, error) {
	for _, track := range plan.video.Box {
		if len(track.Sequence) == 0 {
			continue
		}
		label, _ := track.Label()
		log.Printf("Export: %s : %d - %d", label, track.Sequence[0].Frame+offset, track.Sequence[len(track.Sequence)-1].Frame+offset)
	}

	for _, frame := range plan.exported {
		var b strings.Builder
		for _, line := range plan.frames.Lines(frame) {
			b.WriteString(line.String())
			b.WriteByte('\n')
		}

		labelPath := filepath.Join(e.opts.OutputBase, "labels", e.frameName(offset+frame)+".txt")
		if err := os.WriteFile(labelPath, []byte(b.String()), 0644); err != nil {
			return 0, fmt.Errorf("Export: Could not write '%s', got '%v'", labelPath, err)
		}
	}

	e.extractFrames(plan, offset)

	return len(plan.exported), nil
}

//extractFrames writes the decoded images for the plan's exported frames. A
//missing video or a decode failure is never fatal to the run: label files
//already written stay in place and processing continues with the next video
func (e *Exporter) extractFrames(plan videoPlan, offset int) {
	if e.extractor == nil || len(plan.exported) == 0 {
		return
	}

	if _, err := os.Stat(plan.video.Video); err != nil {
		log.Printf("Export: Video '%s' is not reachable, skipping frame extraction", plan.video.Video)
		return
	}

	requests := make([]FrameRequest, 0, len(plan.exported))
	for _, frame := range plan.exported {
		dest := filepath.Join(e.opts.OutputBase, "images", e.frameName(offset+frame)+"."+e.opts.ImageExt)
		requests = append(requests, FrameRequest{Frame: frame, Dest: dest})
	}

	log.Printf("Export: Extracting %d frames from '%s'", len(requests), plan.video.Video)
	if err := e.extractor.Extract(plan.video.Video, requests); err != nil {
		log.Printf("Export: Frame extraction stopped for '%s', got '%v'", plan.video.Video, err)
	}
}

func (e *Exporter) writeClasses() error {
	var b strings.Builder
	for _, label := range e.registry.Labels() {
		b.WriteString(label)
		b.WriteByte('\n')
	}

	classesPath := filepath.Join(e.opts.OutputBase, "classes.txt")
	if err := os.WriteFile(classesPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("Export: Could not write '%s', got '%v'", classesPath, err)
	}

	return nil
}

func (e *Exporter) frameName(globalIndex int) string {
	return fmt.Sprintf("frame_%0*d", e.padding, globalIndex)
}
