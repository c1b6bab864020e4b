package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare expression", `WarmupStep(60, 1)`, `WarmupStep(60, 1)`},
		{"trailing fence from primed reply", "WarmupStep(60, 1)\n```", `WarmupStep(60, 1)`},
		{"full fence block", "```\nWarmupStep(60, 1)\n```", `WarmupStep(60, 1)`},
		{"fence with language tag", "```go\nWarmupStep(60, 1)\n```", `WarmupStep(60, 1)`},
		{"surrounding whitespace", "  \nWarmupStep(60, 1)\n\n", `WarmupStep(60, 1)`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}
