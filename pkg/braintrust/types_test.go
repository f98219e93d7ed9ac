package braintrust

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const promptJSON = `{
	"id": "p1",
	"project_id": "proj",
	"slug": "greeter",
	"name": "Greeter",
	"prompt_data": {
		"prompt": {
			"type": "chat",
			"messages": [
				{"role": "system", "content": "Be nice."},
				{"role": "user", "content": [{"type": "text", "text": "Hi"}]},
				{"role": "assistant", "content": "Hello", "name": "bot"}
			],
			"tools": "[]"
		},
		"options": {"model": "gpt-4o", "temperature": 0.2, "max_tokens": 100},
		"parser": {"type": "llm_classifier"},
		"origin": {"prompt_id": "x"}
	}
}`

func TestPromptDecode(t *testing.T) {
	t.Parallel()

	var p Prompt
	require.NoError(t, json.Unmarshal([]byte(promptJSON), &p))

	assert.Equal(t, "gpt-4o", p.Model())
	messages := p.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "Be nice.", messages[0].Content)
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Empty(t, messages[1].Content)

	var keys []string
	for pair := p.PromptData.Options.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"model", "temperature", "max_tokens"}, keys)
}

func TestPromptDataPreservesUnknownKeys(t *testing.T) {
	t.Parallel()

	var p Prompt
	require.NoError(t, json.Unmarshal([]byte(promptJSON), &p))

	buf, err := json.Marshal(p.PromptData)
	require.NoError(t, err)

	var got, want map[string]any
	require.NoError(t, json.Unmarshal(buf, &got))

	var full map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(promptJSON), &full))
	want = full["prompt_data"]

	assert.Equal(t, want, got)
}

func TestMessageStructuredContentReplaced(t *testing.T) {
	t.Parallel()

	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":[{"type":"text","text":"Hi"}]}`), &m))

	m.Content = "Plain now"
	buf, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"Plain now"}`, string(buf))
}

func TestPromptDataClone(t *testing.T) {
	t.Parallel()

	var p Prompt
	require.NoError(t, json.Unmarshal([]byte(promptJSON), &p))

	clone, err := p.PromptData.Clone()
	require.NoError(t, err)

	clone.Prompt.Messages[0].Content = "changed"
	clone.Options.Set("model", "other")

	assert.Equal(t, "Be nice.", p.Messages()[0].Content)
	assert.Equal(t, "gpt-4o", p.Model())
}

func TestUpdatePromptRequest(t *testing.T) {
	t.Parallel()

	assert.True(t, UpdatePromptRequest{}.IsEmpty())

	name := "n"
	req := UpdatePromptRequest{Name: &name}
	assert.False(t, req.IsEmpty())

	buf, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"n"}`, string(buf))
}

func TestEmptyPromptData(t *testing.T) {
	t.Parallel()

	var p Prompt
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","slug":"s","prompt_data":null}`), &p))
	assert.Nil(t, p.Messages())
	assert.Empty(t, p.Model())

	buf, err := json.Marshal(p.PromptData)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(buf))
}
