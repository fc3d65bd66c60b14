package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/shopspring/decimal"
)

//wire types matching the Label Studio JSON-MIN export. Box percentages are read
//as json.Number so their exact decimal literals survive until conversion,
//long interpolation chains would otherwise accumulate float rounding error
type rawKeyframe struct {
	Frame   int         `json:"frame"`
	X       json.Number `json:"x"`
	Y       json.Number `json:"y"`
	Width   json.Number `json:"width"`
	Height  json.Number `json:"height"`
	Time    float64     `json:"time"`
	Enabled bool        `json:"enabled"`
}

type rawTrack struct {
	FramesCount int           `json:"framesCount"`
	Sequence    []rawKeyframe `json:"sequence"`
	Labels      []string      `json:"labels"`
}

type rawVideoAnnotation struct {
	Video string     `json:"video"`
	Box   []rawTrack `json:"box"`
}

//Load parses a JSON-MIN annotations file exported from Label Studio into the
//ordered list of video annotation bundles
func Load(jsonPath string) ([]VideoAnnotation, error) {
	f, err := os.Open(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("Load: Could not open '%s', got '%v'", jsonPath, err)
	}
	defer f.Close()

	var raw []rawVideoAnnotation
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("Load: Could not decode '%s', got '%v'", jsonPath, err)
	}

	videos := make([]VideoAnnotation, 0, len(raw))
	for _, rv := range raw {
		video := VideoAnnotation{Video: rv.Video, Box: make([]SubjectTrack, 0, len(rv.Box))}
		for _, rt := range rv.Box {
			track := SubjectTrack{
				Labels:      rt.Labels,
				Sequence:    make([]Keyframe, 0, len(rt.Sequence)),
				FramesCount: rt.FramesCount,
			}
			for _, rk := range rt.Sequence {
				kf, err := parseKeyframe(rk)
				if err != nil {
					return nil, fmt.Errorf("Load: Invalid keyframe in '%s', got '%v'", rv.Video, err)
				}
				track.Sequence = append(track.Sequence, kf)
			}
			video.Box = append(video.Box, track)
		}
		videos = append(videos, video)
	}

	return videos, nil
}

func parseKeyframe(rk rawKeyframe) (Keyframe, error) {
	kf := Keyframe{Frame: rk.Frame, Time: rk.Time, Enabled: rk.Enabled}

	fields := []struct {
		name  string
		raw   json.Number
		value *decimal.Decimal
	}{
		{"x", rk.X, &kf.X},
		{"y", rk.Y, &kf.Y},
		{"width", rk.Width, &kf.Width},
		{"height", rk.Height, &kf.Height},
	}
	for _, field := range fields {
		d, err := decimal.NewFromString(field.raw.String())
		if err != nil {
			return Keyframe{}, fmt.Errorf("parseKeyframe: Bad '%s' value '%s' at frame %d", field.name, field.raw, rk.Frame)
		}
		*field.value = d
	}

	return kf, nil
}

//ResolveVideoPaths rewrites each annotation's video URI to a local file path by
//joining its basename with videoDir. The URI is replaced only when the resolved
//file actually exists, a video that stays unresolved simply gets no frames extracted
func ResolveVideoPaths(videos []VideoAnnotation, videoDir string) {
	if videoDir == "" {
		return
	}

	for i := range videos {
		resolved := filepath.Join(videoDir, path.Base(videos[i].Video))
		if _, err := os.Stat(resolved); err == nil {
			videos[i].Video = resolved
		}
	}
}
