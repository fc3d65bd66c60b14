package dataset

import (
	"testing"

	"github.com/hidenorly/video-annotations-to-yolo/pkg/annotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kf(t *testing.T, frame int, x, y, w, h string, enabled bool) annotation.Keyframe {
	t.Helper()
	return annotation.Keyframe{
		Frame: frame,
		X:     dec(t, x), Y: dec(t, y),
		Width: dec(t, w), Height: dec(t, h),
		Enabled: enabled,
	}
}

func track(label string, framesCount int, sequence ...annotation.Keyframe) annotation.SubjectTrack {
	return annotation.SubjectTrack{Labels: []string{label}, Sequence: sequence, FramesCount: framesCount}
}

func registryFor(t *testing.T, videos ...annotation.VideoAnnotation) *annotation.Registry {
	t.Helper()
	registry, err := annotation.BuildRegistry(videos)
	require.NoError(t, err)
	return registry
}

func TestAggregateInterpolatesGaps(t *testing.T) {
	video := annotation.VideoAnnotation{
		Video: "match.mp4",
		Box: []annotation.SubjectTrack{
			track("teamA", 0,
				kf(t, 1, "40", "40", "20", "20", true),
				kf(t, 5, "80", "40", "20", "20", true),
			),
		},
	}

	fm, err := Aggregate(video, registryFor(t, video))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, fm.Frames())

	//keyframes are emitted verbatim
	require.Len(t, fm.Lines(1), 1)
	assertBoxEqual(t, nbox(t, "0.5", "0.5", "0.2", "0.2"), fm.Lines(1)[0].Box)
	require.Len(t, fm.Lines(5), 1)
	assertBoxEqual(t, nbox(t, "0.9", "0.5", "0.2", "0.2"), fm.Lines(5)[0].Box)

	//the gap is filled linearly in normalized coordinates
	for frame, cx := range map[int]string{2: "0.6", 3: "0.7", 4: "0.8"} {
		require.Len(t, fm.Lines(frame), 1, "frame %d", frame)
		assertBoxEqual(t, nbox(t, cx, "0.5", "0.2", "0.2"), fm.Lines(frame)[0].Box)
	}
}

func TestAggregateDisabledPredecessorSuppressesInterpolation(t *testing.T) {
	video := annotation.VideoAnnotation{
		Video: "match.mp4",
		Box: []annotation.SubjectTrack{
			track("teamA", 0,
				kf(t, 2, "40", "40", "20", "20", false),
				kf(t, 5, "80", "40", "20", "20", true),
			),
		},
	}

	fm, err := Aggregate(video, registryFor(t, video))
	require.NoError(t, err)

	//only the two exact keyframes, nothing synthesized in between
	assert.Equal(t, []int{2, 5}, fm.Frames())
}

func TestAggregateAdjacentKeyframes(t *testing.T) {
	video := annotation.VideoAnnotation{
		Video: "match.mp4",
		Box: []annotation.SubjectTrack{
			track("teamA", 0,
				kf(t, 5, "40", "40", "20", "20", true),
				kf(t, 6, "41", "40", "20", "20", true),
			),
		},
	}

	fm, err := Aggregate(video, registryFor(t, video))
	require.NoError(t, err)

	assert.Equal(t, []int{5, 6}, fm.Frames())
}

func TestAggregateMultipleSubjectsShareFrames(t *testing.T) {
	video := annotation.VideoAnnotation{
		Video: "match.mp4",
		Box: []annotation.SubjectTrack{
			track("teamB", 0,
				kf(t, 1, "40", "40", "20", "20", true),
				kf(t, 3, "60", "40", "20", "20", true),
			),
			track("ball", 0,
				kf(t, 2, "50", "50", "4", "4", true),
			),
		},
	}

	registry := registryFor(t, video)
	fm, err := Aggregate(video, registry)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, fm.Frames())

	//frame 2 carries the interpolated teamB box first (subject input order), then the ball keyframe
	lines := fm.Lines(2)
	require.Len(t, lines, 2)

	teamBIndex, _ := registry.Index("teamB")
	ballIndex, _ := registry.Index("ball")
	assert.Equal(t, teamBIndex, lines[0].LabelIndex)
	assert.Equal(t, ballIndex, lines[1].LabelIndex)
}

func TestAggregateRecordsKeyframeTimes(t *testing.T) {
	first := kf(t, 1, "40", "40", "20", "20", true)
	first.Time = 0.04
	second := kf(t, 2, "41", "40", "20", "20", true)
	second.Time = 0.08

	video := annotation.VideoAnnotation{
		Video: "match.mp4",
		Box:   []annotation.SubjectTrack{track("teamA", 0, first, second)},
	}

	fm, err := Aggregate(video, registryFor(t, video))
	require.NoError(t, err)

	got, ok := fm.Time(2)
	require.True(t, ok)
	assert.Equal(t, 0.08, got)

	_, ok = fm.Time(7)
	assert.False(t, ok)
}

func TestAggregateLabelViolation(t *testing.T) {
	valid := annotation.VideoAnnotation{
		Video: "ok.mp4",
		Box:   []annotation.SubjectTrack{track("teamA", 0, kf(t, 1, "40", "40", "20", "20", true))},
	}
	registry := registryFor(t, valid)

	broken := annotation.VideoAnnotation{
		Video: "broken.mp4",
		Box: []annotation.SubjectTrack{
			{Labels: []string{"teamA", "teamB"}, Sequence: []annotation.Keyframe{kf(t, 1, "40", "40", "20", "20", true)}},
		},
	}

	_, err := Aggregate(broken, registry)
	assert.Error(t, err)
}
