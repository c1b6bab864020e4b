// Package workout defines the structured workout model and the closed
// constructor vocabulary that generated expressions are allowed to use.
package workout

import "fmt"

// Sport tags a workout with its activity type. An empty Sport means the
// type is not yet known and should be detected from the workout text.
type Sport string

const (
	SportSwimming    Sport = "swimming"
	SportRunning     Sport = "running"
	SportCycling     Sport = "cycling"
	SportWalking     Sport = "walking"
	SportHiking      Sport = "hiking"
	SportUnspecified Sport = ""
)

// ParseSport maps a user-supplied string to a Sport. Empty input means
// auto-detect.
func ParseSport(s string) (Sport, error) {
	switch Sport(s) {
	case SportSwimming, SportRunning, SportCycling, SportWalking, SportHiking, SportUnspecified:
		return Sport(s), nil
	}
	return SportUnspecified, fmt.Errorf("unknown workout type %q (want swimming, running, cycling, walking, or hiking)", s)
}

func (s Sport) known() bool {
	switch s {
	case SportSwimming, SportRunning, SportCycling, SportWalking, SportHiking:
		return true
	}
	return false
}

// StepKind identifies the role of a step within a workout.
type StepKind int

const (
	StepWarmup StepKind = iota
	StepInterval
	StepRecovery
	StepCooldown
	StepRepeat
)

func (k StepKind) String() string {
	switch k {
	case StepWarmup:
		return "warmup"
	case StepInterval:
		return "interval"
	case StepRecovery:
		return "recovery"
	case StepCooldown:
		return "cooldown"
	case StepRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// ConditionType distinguishes how a step ends.
type ConditionType int

const (
	ConditionTime ConditionType = iota
	ConditionDistance
)

func (c ConditionType) String() string {
	if c == ConditionDistance {
		return "distance"
	}
	return "time"
}

// EndCondition terminates an executable step: elapsed seconds or covered
// distance (yards for swimming, meters otherwise).
type EndCondition struct {
	Type  ConditionType
	Value float64
}

// EffortTarget is an optional 1-5 effort rating attached to a step
// (1 = easy, 5 = max effort).
type EffortTarget struct {
	Level int
}

// Step is one segment of a workout. Repeat groups carry Repeats and child
// Steps instead of an end condition.
type Step struct {
	Kind   StepKind
	Order  int
	End    EndCondition
	Target *EffortTarget
	// Repeat group fields.
	Repeats int
	Steps   []Step
}

// Workout is the validated structured output of a conversion.
type Workout struct {
	Name                     string
	Sport                    Sport
	Steps                    []Step
	EstimatedDurationSeconds int
}

func executableStep(kind StepKind, end EndCondition, order int, target *EffortTarget) Step {
	return Step{Kind: kind, Order: order, End: end, Target: target}
}

// NewTimeStep builds an executable step that ends after the given seconds.
func NewTimeStep(kind StepKind, seconds float64, order int) Step {
	return executableStep(kind, EndCondition{Type: ConditionTime, Value: seconds}, order, nil)
}

// NewDistanceStep builds an executable step that ends after the given
// distance.
func NewDistanceStep(kind StepKind, distance float64, order int) Step {
	return executableStep(kind, EndCondition{Type: ConditionDistance, Value: distance}, order, nil)
}

// NewDistanceEffortStep builds a distance step with an effort target.
func NewDistanceEffortStep(kind StepKind, distance float64, order, effort int) Step {
	return executableStep(kind, EndCondition{Type: ConditionDistance, Value: distance}, order, &EffortTarget{Level: effort})
}

// NewRepeatGroup groups child steps to be repeated a number of times.
func NewRepeatGroup(order, repeats int, steps []Step) Step {
	return Step{Kind: StepRepeat, Order: order, Repeats: repeats, Steps: steps}
}

// New assembles a workout for the given sport and computes its duration
// estimate from the steps.
func New(sport Sport, name string, steps []Step) *Workout {
	return &Workout{
		Name:                     name,
		Sport:                    sport,
		Steps:                    steps,
		EstimatedDurationSeconds: estimateDuration(sport, steps),
	}
}

// Rough pace per distance unit, used only for the duration estimate:
// seconds per yard for swimming, seconds per meter for the rest.
var paceSecondsPerUnit = map[Sport]float64{
	SportSwimming: 1.5,
	SportRunning:  0.33,
	SportCycling:  0.12,
	SportWalking:  0.85,
	SportHiking:   1.1,
}

func estimateDuration(sport Sport, steps []Step) int {
	var total float64
	for _, s := range steps {
		total += stepDuration(sport, s)
	}
	if total < 0 {
		return 0
	}
	return int(total)
}

func stepDuration(sport Sport, s Step) float64 {
	if s.Kind == StepRepeat {
		var inner float64
		for _, child := range s.Steps {
			inner += stepDuration(sport, child)
		}
		return inner * float64(s.Repeats)
	}
	if s.End.Type == ConditionTime {
		return s.End.Value
	}
	pace, ok := paceSecondsPerUnit[sport]
	if !ok {
		pace = 1
	}
	return s.End.Value * pace
}
