package workout

import (
	_ "embed"
	"fmt"
	"sort"
)

// SchemaReference is the constructor vocabulary documentation handed to the
// model as system context. The parser enforces the same vocabulary, so the
// two cannot drift apart independently of this package.
//
//go:embed schema_reference.txt
var SchemaReference string

// constructorFunc builds a domain value from already-evaluated arguments.
// Arguments arrive as string, int64, float64, or Step.
type constructorFunc func(args []any) (any, *ValidationError)

// constructors is the closed whitelist of callable names in a generated
// expression. Anything else is rejected before construction.
var constructors = map[string]constructorFunc{
	"WarmupStep":                 stepTimeCtor("WarmupStep", StepWarmup),
	"IntervalStep":               stepTimeCtor("IntervalStep", StepInterval),
	"RecoveryStep":               stepTimeCtor("RecoveryStep", StepRecovery),
	"CooldownStep":               stepTimeCtor("CooldownStep", StepCooldown),
	"WarmupStepDistance":         stepDistanceCtor("WarmupStepDistance", StepWarmup),
	"IntervalStepDistance":       stepDistanceCtor("IntervalStepDistance", StepInterval),
	"RecoveryStepDistance":       stepDistanceCtor("RecoveryStepDistance", StepRecovery),
	"CooldownStepDistance":       stepDistanceCtor("CooldownStepDistance", StepCooldown),
	"WarmupStepDistanceEffort":   stepDistanceEffortCtor("WarmupStepDistanceEffort", StepWarmup),
	"IntervalStepDistanceEffort": stepDistanceEffortCtor("IntervalStepDistanceEffort", StepInterval),
	"RecoveryStepDistanceEffort": stepDistanceEffortCtor("RecoveryStepDistanceEffort", StepRecovery),
	"CooldownStepDistanceEffort": stepDistanceEffortCtor("CooldownStepDistanceEffort", StepCooldown),
	"RepeatGroup":                repeatGroupCtor,
	"SwimmingWorkout":            workoutCtor("SwimmingWorkout", SportSwimming),
	"RunningWorkout":             workoutCtor("RunningWorkout", SportRunning),
	"CyclingWorkout":             workoutCtor("CyclingWorkout", SportCycling),
	"WalkingWorkout":             workoutCtor("WalkingWorkout", SportWalking),
	"HikingWorkout":              workoutCtor("HikingWorkout", SportHiking),
}

// ConstructorNames returns the whitelist in stable order.
func ConstructorNames() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stepTimeCtor(name string, kind StepKind) constructorFunc {
	return func(args []any) (any, *ValidationError) {
		if err := checkArity(name, args, 2); err != nil {
			return nil, err
		}
		seconds, err := numberArg(name, args, 0, "seconds")
		if err != nil {
			return nil, err
		}
		order, err := intArg(name, args, 1, "stepOrder")
		if err != nil {
			return nil, err
		}
		return NewTimeStep(kind, seconds, order), nil
	}
}

func stepDistanceCtor(name string, kind StepKind) constructorFunc {
	return func(args []any) (any, *ValidationError) {
		if err := checkArity(name, args, 2); err != nil {
			return nil, err
		}
		distance, err := numberArg(name, args, 0, "distance")
		if err != nil {
			return nil, err
		}
		order, err := intArg(name, args, 1, "stepOrder")
		if err != nil {
			return nil, err
		}
		return NewDistanceStep(kind, distance, order), nil
	}
}

func stepDistanceEffortCtor(name string, kind StepKind) constructorFunc {
	return func(args []any) (any, *ValidationError) {
		if err := checkArity(name, args, 3); err != nil {
			return nil, err
		}
		distance, err := numberArg(name, args, 0, "distance")
		if err != nil {
			return nil, err
		}
		order, err := intArg(name, args, 1, "stepOrder")
		if err != nil {
			return nil, err
		}
		effort, err := intArg(name, args, 2, "effortLevel")
		if err != nil {
			return nil, err
		}
		if effort < 1 || effort > 5 {
			return nil, constructionErr(fmt.Sprintf("%s: effortLevel must be 1-5, got %d", name, effort))
		}
		return NewDistanceEffortStep(kind, distance, order, effort), nil
	}
}

func repeatGroupCtor(args []any) (any, *ValidationError) {
	if len(args) < 3 {
		return nil, constructionErr(fmt.Sprintf("RepeatGroup expects (stepOrder, repeats, step, ...), got %d arguments", len(args)))
	}
	order, err := intArg("RepeatGroup", args, 0, "stepOrder")
	if err != nil {
		return nil, err
	}
	repeats, err := intArg("RepeatGroup", args, 1, "repeats")
	if err != nil {
		return nil, err
	}
	if repeats < 1 {
		return nil, constructionErr(fmt.Sprintf("RepeatGroup: repeats must be at least 1, got %d", repeats))
	}
	steps, err := stepArgs("RepeatGroup", args, 2)
	if err != nil {
		return nil, err
	}
	return NewRepeatGroup(order, repeats, steps), nil
}

func workoutCtor(name string, sport Sport) constructorFunc {
	return func(args []any) (any, *ValidationError) {
		if len(args) < 1 {
			return nil, constructionErr(fmt.Sprintf("%s expects (name, step, ...), got no arguments", name))
		}
		workoutName, err := stringArg(name, args, 0, "name")
		if err != nil {
			return nil, err
		}
		steps, err := stepArgs(name, args, 1)
		if err != nil {
			return nil, err
		}
		return New(sport, workoutName, steps), nil
	}
}

// --- argument helpers ---

func checkArity(name string, args []any, want int) *ValidationError {
	if len(args) != want {
		return constructionErr(fmt.Sprintf("%s expects %d arguments, got %d", name, want, len(args)))
	}
	return nil
}

func stringArg(name string, args []any, i int, label string) (string, *ValidationError) {
	s, ok := args[i].(string)
	if !ok {
		return "", constructionErr(fmt.Sprintf("%s: argument %d (%s) must be a string, got %s", name, i+1, label, typeName(args[i])))
	}
	return s, nil
}

func numberArg(name string, args []any, i int, label string) (float64, *ValidationError) {
	var v float64
	switch n := args[i].(type) {
	case int64:
		v = float64(n)
	case float64:
		v = n
	default:
		return 0, constructionErr(fmt.Sprintf("%s: argument %d (%s) must be a number, got %s", name, i+1, label, typeName(args[i])))
	}
	if v < 0 {
		return 0, constructionErr(fmt.Sprintf("%s: argument %d (%s) must not be negative", name, i+1, label))
	}
	return v, nil
}

func intArg(name string, args []any, i int, label string) (int, *ValidationError) {
	n, ok := args[i].(int64)
	if !ok {
		return 0, constructionErr(fmt.Sprintf("%s: argument %d (%s) must be an integer, got %s", name, i+1, label, typeName(args[i])))
	}
	return int(n), nil
}

func stepArgs(name string, args []any, from int) ([]Step, *ValidationError) {
	steps := make([]Step, 0, len(args)-from)
	for i := from; i < len(args); i++ {
		s, ok := args[i].(Step)
		if !ok {
			return nil, constructionErr(fmt.Sprintf("%s: argument %d must be a step, got %s", name, i+1, typeName(args[i])))
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int64:
		return "integer"
	case float64:
		return "number"
	case Step:
		return "step"
	case *Workout:
		return "workout"
	default:
		return fmt.Sprintf("%T", v)
	}
}
