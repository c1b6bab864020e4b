package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSport(t *testing.T) {
	s, err := ParseSport("swimming")
	require.NoError(t, err)
	assert.Equal(t, SportSwimming, s)

	s, err = ParseSport("")
	require.NoError(t, err)
	assert.Equal(t, SportUnspecified, s)

	_, err = ParseSport("rowing")
	assert.Error(t, err)
}

func TestEstimateDuration(t *testing.T) {
	steps := []Step{
		NewTimeStep(StepWarmup, 300, 1),
		NewRepeatGroup(2, 4, []Step{
			NewTimeStep(StepInterval, 60, 3),
			NewTimeStep(StepRecovery, 30, 4),
		}),
		NewTimeStep(StepCooldown, 120, 5),
	}
	w := New(SportRunning, "Fartlek", steps)
	assert.Equal(t, 300+4*(60+30)+120, w.EstimatedDurationSeconds)
}

func TestEstimateDurationDistancePace(t *testing.T) {
	w := New(SportSwimming, "Swim", []Step{
		NewDistanceStep(StepInterval, 100, 1),
	})
	// 100 yd at the swimming pace of 1.5 s/yd.
	assert.Equal(t, 150, w.EstimatedDurationSeconds)
}

func TestToMap(t *testing.T) {
	w := New(SportSwimming, "Swim", []Step{
		NewDistanceEffortStep(StepInterval, 100, 1, 4),
		NewRepeatGroup(2, 3, []Step{
			NewDistanceStep(StepRecovery, 50, 3),
		}),
	})

	m := w.ToMap()
	assert.Equal(t, "Swim", m["name"])
	assert.Equal(t, "swimming", m["subtype"])
	assert.Equal(t, w.EstimatedDurationSeconds, m["estimatedDurationSeconds"])

	segments, ok := m["segments"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, segments, 2)

	interval := segments[0]
	assert.Equal(t, "interval", interval["type"])
	assert.Equal(t, 1, interval["order"])
	end, ok := interval["endCondition"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "distance", end["type"])
	assert.Equal(t, 100.0, end["value"])
	target, ok := interval["target"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4, target["effort"])

	repeat := segments[1]
	assert.Equal(t, "repeat", repeat["type"])
	assert.Equal(t, 3, repeat["repeats"])
	children, ok := repeat["steps"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, children, 1)
	assert.Equal(t, "recovery", children[0]["type"])
	assert.NotContains(t, children[0], "target")
}

func TestSummary(t *testing.T) {
	w := New(SportSwimming, "Morning Swim", []Step{
		NewDistanceStep(StepWarmup, 200, 1),
		NewRepeatGroup(2, 3, []Step{
			NewDistanceEffortStep(StepInterval, 100, 3, 4),
		}),
	})

	md := w.Summary()
	assert.Contains(t, md, "# Morning Swim")
	assert.Contains(t, md, "swimming")
	assert.Contains(t, md, "200 yd")
	assert.Contains(t, md, "3 × repeat")
	assert.Contains(t, md, "effort 4/5")
}
