package garmin

import (
	"fmt"

	"wahoo2garmin/workout"
)

// Wire-format identifiers used by the workout service. Swimming distance
// steps use conditionTypeId 3 (not the lap-button condition 1), and effort
// ratings ride on the secondary target slot 18 ("swim.instruction").
type sportType struct {
	ID  int    `json:"sportTypeId"`
	Key string `json:"sportTypeKey"`
}

type stepType struct {
	ID  int    `json:"stepTypeId"`
	Key string `json:"stepTypeKey"`
}

type conditionType struct {
	ID          int    `json:"conditionTypeId"`
	Key         string `json:"conditionTypeKey"`
	Displayable bool   `json:"displayable"`
}

type targetType struct {
	ID  int    `json:"workoutTargetTypeId"`
	Key string `json:"workoutTargetTypeKey"`
}

var sportTypes = map[workout.Sport]sportType{
	workout.SportRunning:  {ID: 1, Key: "running"},
	workout.SportCycling:  {ID: 2, Key: "cycling"},
	workout.SportHiking:   {ID: 3, Key: "hiking"},
	workout.SportSwimming: {ID: 4, Key: "lap_swimming"},
	workout.SportWalking:  {ID: 9, Key: "walking"},
}

var stepTypes = map[workout.StepKind]stepType{
	workout.StepWarmup:   {ID: 1, Key: "warmup"},
	workout.StepCooldown: {ID: 2, Key: "cooldown"},
	workout.StepInterval: {ID: 3, Key: "interval"},
	workout.StepRecovery: {ID: 4, Key: "recovery"},
	workout.StepRepeat:   {ID: 6, Key: "repeat"},
}

var (
	conditionTime     = conditionType{ID: 2, Key: "time", Displayable: true}
	conditionDistance = conditionType{ID: 3, Key: "distance", Displayable: true}
	noTarget          = targetType{ID: 1, Key: "no.target"}
	swimInstruction   = targetType{ID: 18, Key: "swim.instruction"}
)

type workoutPayload struct {
	SportType                sportType        `json:"sportType"`
	WorkoutName              string           `json:"workoutName"`
	EstimatedDurationInSecs  int              `json:"estimatedDurationInSecs"`
	WorkoutSegments          []workoutSegment `json:"workoutSegments"`
}

type workoutSegment struct {
	SegmentOrder int            `json:"segmentOrder"`
	SportType    sportType      `json:"sportType"`
	WorkoutSteps []workoutStep  `json:"workoutSteps"`
}

// workoutStep covers both executable steps and repeat groups; the DTO type
// discriminates on the wire.
type workoutStep struct {
	Type                    string        `json:"type"`
	StepOrder               int           `json:"stepOrder"`
	StepType                stepType      `json:"stepType"`
	EndCondition            *conditionType `json:"endCondition,omitempty"`
	EndConditionValue       *float64      `json:"endConditionValue,omitempty"`
	TargetType              *targetType   `json:"targetType,omitempty"`
	SecondaryTargetType     *targetType   `json:"secondaryTargetType,omitempty"`
	SecondaryTargetValueOne *float64      `json:"secondaryTargetValueOne,omitempty"`
	NumberOfIterations      int           `json:"numberOfIterations,omitempty"`
	WorkoutSteps            []workoutStep `json:"workoutSteps,omitempty"`
}

// buildPayload maps a validated workout onto the Garmin workout-service
// schema, keyed by its sport.
func buildPayload(w *workout.Workout) (workoutPayload, error) {
	st, ok := sportTypes[w.Sport]
	if !ok {
		return workoutPayload{}, fmt.Errorf("unsupported workout type: %s", w.Sport)
	}

	steps := make([]workoutStep, 0, len(w.Steps))
	for _, s := range w.Steps {
		steps = append(steps, buildStep(s))
	}

	return workoutPayload{
		SportType:               st,
		WorkoutName:             w.Name,
		EstimatedDurationInSecs: w.EstimatedDurationSeconds,
		WorkoutSegments: []workoutSegment{
			{SegmentOrder: 1, SportType: st, WorkoutSteps: steps},
		},
	}, nil
}

func buildStep(s workout.Step) workoutStep {
	if s.Kind == workout.StepRepeat {
		children := make([]workoutStep, 0, len(s.Steps))
		for _, child := range s.Steps {
			children = append(children, buildStep(child))
		}
		return workoutStep{
			Type:               "RepeatGroupDTO",
			StepOrder:          s.Order,
			StepType:           stepTypes[workout.StepRepeat],
			NumberOfIterations: s.Repeats,
			WorkoutSteps:       children,
		}
	}

	cond := conditionTime
	if s.End.Type == workout.ConditionDistance {
		cond = conditionDistance
	}
	value := s.End.Value

	step := workoutStep{
		Type:              "ExecutableStepDTO",
		StepOrder:         s.Order,
		StepType:          stepTypes[s.Kind],
		EndCondition:      &cond,
		EndConditionValue: &value,
		TargetType:        &noTarget,
	}
	if s.Target != nil {
		secondary := swimInstruction
		level := float64(s.Target.Level)
		step.SecondaryTargetType = &secondary
		step.SecondaryTargetValueOne = &level
	}
	return step
}
