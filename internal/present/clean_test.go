package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced json", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced without language", "```\n[1, 2]\n```", `[1, 2]`},
		{"leading prose", `Here is the result: {"a": 1}`, `{"a": 1}`},
		{"trailing prose", `{"a": 1} Hope that helps!`, `{"a": 1}`},
		{"array", `[{"a": 1}, {"b": 2}]`, `[{"a": 1}, {"b": 2}]`},
		{"whitespace", "  \n {\"a\": 1} \n ", `{"a": 1}`},
		{"no json at all", "sorry, cannot do that", "sorry, cannot do that"},
		{"unterminated object", `{"a": 1`, `{"a": 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.raw))
		})
	}
}
