package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvoland/btprompt/pkg/braintrust"
)

func msg(role, content string) braintrust.Message {
	return braintrust.NewMessage(role, content)
}

func TestSystemUser(t *testing.T) {
	t.Parallel()

	system, user := SystemUser([]braintrust.Message{
		msg(braintrust.RoleSystem, "first"),
		msg(braintrust.RoleUser, "question"),
		msg("assistant", "answer"),
		msg(braintrust.RoleSystem, "last"),
	})
	assert.Equal(t, "last", system)
	assert.Equal(t, "question", user)

	system, user = SystemUser(nil)
	assert.Empty(t, system)
	assert.Empty(t, user)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []braintrust.Message{msg("system", "s"), msg("user", "u")}, Build("s", "u"))
	assert.Equal(t, []braintrust.Message{msg("user", "u")}, Build("", "u"))
	assert.Equal(t, []braintrust.Message{msg("system", "s")}, Build("s", ""))
	assert.Empty(t, Build("", ""))
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		current  []braintrust.Message
		system   string
		user     string
		expected []braintrust.Message
	}{
		{
			name:     "replace both in place",
			current:  []braintrust.Message{msg("system", "old s"), msg("assistant", "a"), msg("user", "old u")},
			system:   "new s",
			user:     "new u",
			expected: []braintrust.Message{msg("system", "new s"), msg("assistant", "a"), msg("user", "new u")},
		},
		{
			name:     "only user",
			current:  []braintrust.Message{msg("system", "s"), msg("user", "old u")},
			user:     "new u",
			expected: []braintrust.Message{msg("system", "s"), msg("user", "new u")},
		},
		{
			name:     "missing system is prepended",
			current:  []braintrust.Message{msg("user", "u")},
			system:   "s",
			expected: []braintrust.Message{msg("system", "s"), msg("user", "u")},
		},
		{
			name:     "missing user is appended",
			current:  []braintrust.Message{msg("system", "s")},
			user:     "u",
			expected: []braintrust.Message{msg("system", "s"), msg("user", "u")},
		},
		{
			name:     "empty current",
			system:   "s",
			user:     "u",
			expected: []braintrust.Message{msg("system", "s"), msg("user", "u")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Merge(tt.current, tt.system, tt.user))
		})
	}
}

func TestMergeDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	current := []braintrust.Message{msg("system", "s")}
	Merge(current, "changed", "")
	assert.Equal(t, "s", current[0].Content)
}

func TestTemplateVariables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		expected []string
	}{
		{text: "Hello {{name}}, you are {{age}}. Bye {{name}}.", expected: []string{"name", "age"}},
		{text: "{{#each items}}{{item}}{{/each}}", expected: []string{"item"}},
		{text: "{{ spaced }} {{1bad}} {{_ok}}", expected: []string{"_ok"}},
		{text: "no variables", expected: nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TemplateVariables(tt.text), tt.text)
	}
}

func TestUnifiedDiff(t *testing.T) {
	t.Parallel()

	assert.Empty(t, UnifiedDiff("same", "same"))
	assert.Empty(t, UnifiedDiff("same", "same\n"))

	assert.Equal(t, "--- current\n+++ proposed\n@@ -1 +1 @@\n-old\n+new\n", UnifiedDiff("old", "new"))

	diff := UnifiedDiff("a\nb\nc", "a\nB\nc")
	assert.Contains(t, diff, "-b\n+B\n")
	assert.NotContains(t, diff, "No newline")
}
