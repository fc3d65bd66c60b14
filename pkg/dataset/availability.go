package dataset

import "github.com/hidenorly/video-annotations-to-yolo/pkg/annotation"

//AvailabilityMask flags which local frame numbers of one video fall inside at
//least one subject's annotated range. Only flagged frames are exported, even when
//interpolation produced label data outside every range
type AvailabilityMask []bool

//BuildAvailability computes the mask for one video. Each track marks the half-open
//range [first keyframe, last keyframe); the union over all tracks is the result.
//When includeFinalKeyframe is set the range is extended to include each track's
//last keyframe frame as well, otherwise the final frame of every track is dropped
//the way the half-open convention implies.
//The mask is sized by the largest declared framesCount across the video's tracks,
//or by the largest observed keyframe frame number when no count is declared
func BuildAvailability(video annotation.VideoAnnotation, includeFinalKeyframe bool) AvailabilityMask {
	maxFrames := 0
	for _, track := range video.Box {
		if track.FramesCount > maxFrames {
			maxFrames = track.FramesCount
		}
		if n := len(track.Sequence); n > 0 {
			if last := track.Sequence[n-1].Frame; last > maxFrames {
				maxFrames = last
			}
		}
	}

	mask := make(AvailabilityMask, maxFrames+1)
	for _, track := range video.Box {
		if len(track.Sequence) == 0 {
			continue
		}

		start := track.Sequence[0].Frame
		end := track.Sequence[len(track.Sequence)-1].Frame
		if includeFinalKeyframe {
			end++
		}

		for frame := start; frame < end && frame < len(mask); frame++ {
			if frame >= 0 {
				mask[frame] = true
			}
		}
	}

	return mask
}

//Available returns whether given local frame number is eligible for export
func (m AvailabilityMask) Available(frame int) bool {
	return frame >= 0 && frame < len(m) && m[frame]
}
