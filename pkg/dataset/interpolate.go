package dataset

import (
	"fmt"

	"github.com/hidenorly/video-annotations-to-yolo/pkg/annotation"
	"github.com/shopspring/decimal"
)

//FrameLabelLine is one exported YOLO label entry: a class index plus a box in
//normalized center form
type FrameLabelLine struct {
	LabelIndex int
	Box        annotation.NormalizedBox
}

//String renders the line in YOLO label file form: space separated class index,
//center-x, center-y, width, height
func (l FrameLabelLine) String() string {
	return fmt.Sprintf("%d %s %s %s %s", l.LabelIndex, l.Box.CenterX, l.Box.CenterY, l.Box.Width, l.Box.Height)
}

//Interpolate produces one label line for every integer frame strictly between
//prevFrame and curFrame by linear interpolation of the already normalized boxes.
//The interpolation fraction is computed with decimal division, so long gaps do not
//drift the way repeated float arithmetic would. Adjacent keyframes (gap of 1)
//yield an empty map
func Interpolate(prevFrame int, prev annotation.NormalizedBox, curFrame int, cur annotation.NormalizedBox, labelIndex int) map[int]FrameLabelLine {
	lines := make(map[int]FrameLabelLine)

	span := decimal.NewFromInt(int64(curFrame - prevFrame))
	for frame := prevFrame + 1; frame < curFrame; frame++ {
		t := decimal.NewFromInt(int64(frame - prevFrame)).Div(span)
		lines[frame] = FrameLabelLine{
			LabelIndex: labelIndex,
			Box: annotation.NormalizedBox{
				CenterX: lerp(prev.CenterX, cur.CenterX, t),
				CenterY: lerp(prev.CenterY, cur.CenterY, t),
				Width:   lerp(prev.Width, cur.Width, t),
				Height:  lerp(prev.Height, cur.Height, t),
			},
		}
	}

	return lines
}

func lerp(from, to, t decimal.Decimal) decimal.Decimal {
	return from.Add(t.Mul(to.Sub(from)))
}
