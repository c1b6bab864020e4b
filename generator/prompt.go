package generator

import (
	"fmt"
	"strings"

	"wahoo2garmin/workout"
)

// Prompt is the message set sent to the LLM for one attempt.
type Prompt struct {
	System string
	User   string
	// Primer is sent as the opening of the assistant turn so the response
	// starts as code instead of prose.
	Primer string
}

// responsePrimer anchors the model reply inside a code fence; the client
// strips the fence again on the way out.
const responsePrimer = "```"

// SystemContext assembles the fixed system prompt: conversion instructions
// plus the constructor reference. Built once per converter, not per attempt.
func SystemContext() string {
	var sb strings.Builder
	sb.WriteString("You convert raw workout descriptions (Wahoo export text) into a single workout expression.\n")
	sb.WriteString("Respond with exactly one expression using only the constructors documented below.\n")
	sb.WriteString("No prose, no explanations, no variable assignments.\n\n")
	sb.WriteString(workout.SchemaReference)
	return sb.String()
}

// BuildInitialPrompt builds the first-attempt request. An unspecified sport
// asks the model to detect the workout type from the text.
func BuildInitialPrompt(system, text string, sport workout.Sport) Prompt {
	var user string
	if sport != workout.SportUnspecified {
		user = fmt.Sprintf(`Convert this %s workout to a workout expression:

%s

Respond with a single %s(...) expression.`, sport, text, workoutConstructor(sport))
	} else {
		user = fmt.Sprintf(`Convert this workout to a workout expression (detect the workout type from the content):

%s

Respond with a single expression using the matching workout constructor (SwimmingWorkout, RunningWorkout, CyclingWorkout, WalkingWorkout, or HikingWorkout).`, text)
	}

	return Prompt{System: system, User: user, Primer: responsePrimer}
}

// BuildRetryPrompt builds an error-feedback request. The previous artifact
// and error message are forwarded verbatim, never summarized or truncated.
func BuildRetryPrompt(system, text string, sport workout.Sport, prevArtifact, prevError string) Prompt {
	instruction := "the matching workout constructor (SwimmingWorkout, RunningWorkout, CyclingWorkout, WalkingWorkout, or HikingWorkout)"
	if sport != workout.SportUnspecified {
		instruction = fmt.Sprintf("a single %s(...) expression", workoutConstructor(sport))
	}

	user := fmt.Sprintf(`The previous conversion attempt failed with this error:

ERROR: %s

PREVIOUS EXPRESSION:
%s

ORIGINAL WORKOUT:
%s

Fix the error and respond with a corrected expression using %s.`, prevError, prevArtifact, text, instruction)

	return Prompt{System: system, User: user, Primer: responsePrimer}
}

func workoutConstructor(sport workout.Sport) string {
	switch sport {
	case workout.SportSwimming:
		return "SwimmingWorkout"
	case workout.SportRunning:
		return "RunningWorkout"
	case workout.SportCycling:
		return "CyclingWorkout"
	case workout.SportWalking:
		return "WalkingWorkout"
	case workout.SportHiking:
		return "HikingWorkout"
	default:
		return "Workout"
	}
}
