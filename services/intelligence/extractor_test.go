package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"grotto/models"
)

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		`["a"]`:                        `["a"]`,
		"```json\n[\"a\"]\n```":        `["a"]`,
		"```\n{\"name\":\"Bob\"}\n```": `{"name":"Bob"}`,
		"  availability_check \n":      "availability_check",
	}
	for in, want := range cases {
		assert.Equal(t, want, stripFences(in))
	}
}

func TestBuildReplyPromptIncludesFleetAndTurns(t *testing.T) {
	prompt := buildReplyPrompt([]models.TranscriptEntry{
		{Role: models.RoleCaller, Text: "Do you have an SUV?"},
		{Role: models.RoleAgent, Text: "Yes, a Honda CR-V."},
	})

	assert.Contains(t, prompt, "Mid-size SUV")
	assert.Contains(t, prompt, "caller: Do you have an SUV?")
	assert.Contains(t, prompt, "agent: Yes, a Honda CR-V.")
	assert.Contains(t, prompt, "agent:", "prompt must cue the next agent turn")
}
