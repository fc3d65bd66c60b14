package video

import (
	"fmt"
	"log"

	"github.com/hidenorly/video-annotations-to-yolo/pkg/dataset"
	"gocv.io/x/gocv"
)

//Extractor decodes single frames out of a video file using openCV
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

//Extract reads each requested frame from the video at videoPath and writes it to
//the request's destination path. Frame numbers are the 1-based annotation frame
//numbers, so the capture is positioned one frame back before reading.
//The first frame that cannot be decoded or written aborts extraction for the rest
//of this video; images already written are kept
func (e *Extractor) Extract(videoPath string, requests []dataset.FrameRequest) error {
	cap, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return fmt.Errorf("Extract: Could not open '%s', got '%v'", videoPath, err)
	}
	defer cap.Close()

	frameMat := gocv.NewMat()
	defer frameMat.Close()

	for i, request := range requests {
		cap.Set(gocv.VideoCapturePosFrames, float64(request.Frame-1))
		if ok := cap.Read(&frameMat); !ok || frameMat.Empty() {
			return fmt.Errorf("Extract: Unable to read frame %d of '%s', quitting", request.Frame, videoPath)
		}

		if ok := gocv.IMWrite(request.Dest, frameMat); !ok {
			return fmt.Errorf("Extract: Could not write '%s', quitting", request.Dest)
		}

		if (i+1)%500 == 0 {
			log.Printf("Extract: '%s': %d/%d frames done", videoPath, i+1, len(requests))
		}
	}

	return nil
}
