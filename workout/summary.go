package workout

import (
	"fmt"
	"strings"
)

// Summary renders a human-readable Markdown digest of the workout, used by
// the preview server and the CLI.
func (w *Workout) Summary() string {
	var sb strings.Builder
	sb.WriteString("# " + w.Name + "\n\n")
	sb.WriteString(fmt.Sprintf("**%s** — estimated %s\n\n", w.Sport, formatDuration(w.EstimatedDurationSeconds)))
	for _, s := range w.Steps {
		writeStepLine(&sb, s, w.Sport, 0)
	}
	return sb.String()
}

func writeStepLine(sb *strings.Builder, s Step, sport Sport, depth int) {
	indent := strings.Repeat("  ", depth)
	if s.Kind == StepRepeat {
		fmt.Fprintf(sb, "%s- %d × repeat:\n", indent, s.Repeats)
		for _, child := range s.Steps {
			writeStepLine(sb, child, sport, depth+1)
		}
		return
	}
	fmt.Fprintf(sb, "%s- %s — %s", indent, s.Kind, formatCondition(s.End, sport))
	if s.Target != nil {
		fmt.Fprintf(sb, " @ effort %d/5", s.Target.Level)
	}
	sb.WriteString("\n")
}

func formatCondition(end EndCondition, sport Sport) string {
	if end.Type == ConditionTime {
		return formatDuration(int(end.Value))
	}
	unit := "m"
	if sport == SportSwimming {
		unit = "yd"
	}
	return fmt.Sprintf("%g %s", end.Value, unit)
}

func formatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	min := seconds / 60
	sec := seconds % 60
	if sec == 0 {
		return fmt.Sprintf("%dmin", min)
	}
	return fmt.Sprintf("%dmin %ds", min, sec)
}
