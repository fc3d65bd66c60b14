package annotation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

//Keyframe is a single annotator-authored bounding box inside a subject's sequence.
//Coordinates are kept exactly as Label Studio exports them: top-left x/y plus
//width/height, all as percentages of the frame dimensions
type Keyframe struct {
	Frame   int
	X       decimal.Decimal
	Y       decimal.Decimal
	Width   decimal.Decimal
	Height  decimal.Decimal
	Time    float64
	Enabled bool
}

//NormalizedBox is a keyframe's box in YOLO form: center coordinates and
//dimensions as fractions in [0,1]
type NormalizedBox struct {
	CenterX decimal.Decimal
	CenterY decimal.Decimal
	Width   decimal.Decimal
	Height  decimal.Decimal
}

var two = decimal.NewFromInt(2)
var hundred = decimal.NewFromInt(100)

//Normalize converts the keyframe's box from top-left-percentage form to
//center-fractional form. It returns a new value and never modifies the keyframe,
//so the same annotation data can be processed more than once
func (k Keyframe) Normalize() NormalizedBox {
	return NormalizedBox{
		CenterX: k.X.Add(k.Width.Div(two)).Div(hundred),
		CenterY: k.Y.Add(k.Height.Div(two)).Div(hundred),
		Width:   k.Width.Div(hundred),
		Height:  k.Height.Div(hundred),
	}
}

//SubjectTrack is the full annotated timeline of one tracked subject within a video.
//Sequence is ordered by ascending frame number. FramesCount is the declared total
//frame count of the video, 0 when the export did not carry one
type SubjectTrack struct {
	Labels      []string
	Sequence    []Keyframe
	FramesCount int
}

//Label returns the track's single label. A track carrying zero or several labels
//is ambiguous and cannot be resolved, so it is reported as an error
func (t SubjectTrack) Label() (string, error) {
	if len(t.Labels) != 1 {
		return "", fmt.Errorf("Label: Each subject must have exactly one label, got %d", len(t.Labels))
	}

	return t.Labels[0], nil
}

//VideoAnnotation is one input video's annotation bundle: the video path (or the
//original upload URI when the file could not be resolved) and all subject tracks
type VideoAnnotation struct {
	Video string
	Box   []SubjectTrack
}
