package workout

// ToMap renders the workout as a nested map suitable for storage or
// transmission. Produced once, after a conversion succeeds.
func (w *Workout) ToMap() map[string]any {
	segments := make([]map[string]any, 0, len(w.Steps))
	for _, s := range w.Steps {
		segments = append(segments, stepToMap(s))
	}
	return map[string]any{
		"name":                     w.Name,
		"subtype":                  string(w.Sport),
		"estimatedDurationSeconds": w.EstimatedDurationSeconds,
		"segments":                 segments,
	}
}

func stepToMap(s Step) map[string]any {
	m := map[string]any{
		"type":  s.Kind.String(),
		"order": s.Order,
	}
	if s.Kind == StepRepeat {
		children := make([]map[string]any, 0, len(s.Steps))
		for _, child := range s.Steps {
			children = append(children, stepToMap(child))
		}
		m["repeats"] = s.Repeats
		m["steps"] = children
		return m
	}
	m["endCondition"] = map[string]any{
		"type":  s.End.Type.String(),
		"value": s.End.Value,
	}
	if s.Target != nil {
		m["target"] = map[string]any{"effort": s.Target.Level}
	}
	return m
}
