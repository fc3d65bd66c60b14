package dataset

import (
	"fmt"
	"sort"

	"github.com/hidenorly/video-annotations-to-yolo/pkg/annotation"
)

//FrameMap holds every subject's label lines for one video, keyed by local frame
//number, together with the keyframe timestamps that were observed per frame
type FrameMap struct {
	lines map[int][]FrameLabelLine
	times map[int]float64
}

//Aggregate merges all subject tracks of one video into a single per-frame map.
//Exact keyframe lines are emitted verbatim; gaps after an enabled keyframe are
//filled by interpolation. A disabled keyframe marks a genuine track absence, so
//the gap that follows it stays empty. Multiple subjects contribute to the same
//frame in subject input order
func Aggregate(video annotation.VideoAnnotation, registry *annotation.Registry) (*FrameMap, error) {
	fm := &FrameMap{
		lines: make(map[int][]FrameLabelLine),
		times: make(map[int]float64),
	}

	for _, track := range video.Box {
		label, err := track.Label()
		if err != nil {
			return nil, fmt.Errorf("Aggregate: '%s': %v", video.Video, err)
		}
		labelIndex, ok := registry.Index(label)
		if !ok {
			return nil, fmt.Errorf("Aggregate: '%s': Label '%s' is not registered", video.Video, label)
		}

		var prevFrame int
		var prevBox annotation.NormalizedBox
		var prevEnabled, havePrev bool

		for _, kf := range track.Sequence {
			box := kf.Normalize()

			lines := make(map[int]FrameLabelLine)
			if havePrev && prevEnabled && kf.Frame-prevFrame > 1 {
				lines = Interpolate(prevFrame, prevBox, kf.Frame, box, labelIndex)
			}
			lines[kf.Frame] = FrameLabelLine{LabelIndex: labelIndex, Box: box}

			for frame, line := range lines {
				fm.lines[frame] = append(fm.lines[frame], line)
			}
			//last writer wins when subjects disagree on a frame's timestamp
			fm.times[kf.Frame] = kf.Time

			prevFrame, prevBox, prevEnabled, havePrev = kf.Frame, box, kf.Enabled, true
		}
	}

	return fm, nil
}

//Frames returns all frame numbers holding label data, in ascending order
func (m *FrameMap) Frames() []int {
	frames := make([]int, 0, len(m.lines))
	for frame := range m.lines {
		frames = append(frames, frame)
	}
	sort.Ints(frames)
	return frames
}

//Lines returns the label lines recorded for given frame
func (m *FrameMap) Lines(frame int) []FrameLabelLine {
	return m.lines[frame]
}

//Time returns the keyframe timestamp recorded for given frame, if any
func (m *FrameMap) Time(frame int) (float64, bool) {
	t, ok := m.times[frame]
	return t, ok
}

//Len returns the number of frames holding label data
func (m *FrameMap) Len() int {
	return len(m.lines)
}
