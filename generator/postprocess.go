package generator

import "strings"

// StripFences removes code-fence wrappers the model tends to put around the
// expression. Because the assistant turn is primed with an opening fence,
// the typical response ends with a closing one; some models also echo a
// fresh opening fence with a language tag.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
