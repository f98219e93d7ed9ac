package braintrust

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Message roles used by chat prompts.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Project is a Braintrust project.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	OrgID string `json:"org_id,omitempty"`
}

// Prompt is a prompt record as returned by the API.
type Prompt struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Created     string     `json:"created,omitempty"`
	PromptData  PromptData `json:"prompt_data"`

	raw json.RawMessage
}

func (p *Prompt) UnmarshalJSON(data []byte) error {
	type plain Prompt
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Prompt(decoded)
	p.raw = slices.Clone(data)
	return nil
}

// Raw returns the record exactly as the server sent it, with every key and
// the server's key order. Prompts built locally are marshaled instead.
func (p *Prompt) Raw() (json.RawMessage, error) {
	if p.raw != nil {
		return p.raw, nil
	}
	return json.Marshal(p)
}

// Messages returns the chat messages of the prompt, if any.
func (p *Prompt) Messages() []Message {
	if p.PromptData.Prompt == nil {
		return nil
	}
	return p.PromptData.Prompt.Messages
}

// Model returns options.model, or "" when unset.
func (p *Prompt) Model() string {
	if p.PromptData.Options == nil {
		return ""
	}
	model, _ := p.PromptData.Options.Get("model")
	s, _ := model.(string)
	return s
}

// PromptData is the prompt_data object of a prompt. Keys the client doesn't
// model (parser, tool_functions, origin...) are kept and written back as is.
type PromptData struct {
	Prompt  *PromptBlock
	Options *orderedmap.OrderedMap[string, any]

	extra map[string]json.RawMessage
}

// PromptBlock is prompt_data.prompt.
type PromptBlock struct {
	Type     string
	Messages []Message

	extra map[string]json.RawMessage
}

// Message is a single chat message. Content is only populated for plain
// string content; structured content is preserved untouched.
type Message struct {
	Role    string
	Content string

	extra map[string]json.RawMessage
}

func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// Clone returns a deep copy of d.
func (d PromptData) Clone() (PromptData, error) {
	buf, err := json.Marshal(d)
	if err != nil {
		return PromptData{}, err
	}
	var clone PromptData
	if err := json.Unmarshal(buf, &clone); err != nil {
		return PromptData{}, err
	}
	return clone, nil
}

// splitFields decodes a JSON object and removes the known keys, returning
// them separately from the remaining ones.
func splitFields(data []byte, known ...string) (map[string]json.RawMessage, map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, nil, err
	}

	found := make(map[string]json.RawMessage, len(known))
	for _, k := range known {
		if v, ok := all[k]; ok {
			found[k] = v
			delete(all, k)
		}
	}
	return found, all, nil
}

// joinFields encodes extra plus the known fields as one JSON object. Known
// fields win over extra ones.
func joinFields(extra map[string]json.RawMessage, known map[string]any) ([]byte, error) {
	out := make(map[string]any, len(extra)+len(known))
	for k, v := range extra {
		out[k] = v
	}
	maps.Copy(out, known)
	return json.Marshal(out)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func (d PromptData) MarshalJSON() ([]byte, error) {
	known := map[string]any{}
	if d.Prompt != nil {
		known["prompt"] = d.Prompt
	}
	if d.Options != nil {
		known["options"] = d.Options
	}
	return joinFields(d.extra, known)
}

func (d *PromptData) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*d = PromptData{}
		return nil
	}

	found, extra, err := splitFields(data, "prompt", "options")
	if err != nil {
		return fmt.Errorf("decoding prompt_data: %w", err)
	}

	*d = PromptData{extra: extra}

	if raw, ok := found["prompt"]; ok && !isNull(raw) {
		var block PromptBlock
		if err := json.Unmarshal(raw, &block); err != nil {
			return fmt.Errorf("decoding prompt_data.prompt: %w", err)
		}
		d.Prompt = &block
	}

	if raw, ok := found["options"]; ok && !isNull(raw) {
		options := orderedmap.New[string, any]()
		if err := json.Unmarshal(raw, options); err != nil {
			return fmt.Errorf("decoding prompt_data.options: %w", err)
		}
		d.Options = options
	}

	return nil
}

func (b PromptBlock) MarshalJSON() ([]byte, error) {
	messages := b.Messages
	if messages == nil {
		messages = []Message{}
	}
	known := map[string]any{"messages": messages}
	if b.Type != "" {
		known["type"] = b.Type
	}
	return joinFields(b.extra, known)
}

func (b *PromptBlock) UnmarshalJSON(data []byte) error {
	found, extra, err := splitFields(data, "type", "messages")
	if err != nil {
		return err
	}

	*b = PromptBlock{extra: extra}

	if raw, ok := found["type"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &b.Type); err != nil {
			return fmt.Errorf("decoding type: %w", err)
		}
	}
	if raw, ok := found["messages"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &b.Messages); err != nil {
			return fmt.Errorf("decoding messages: %w", err)
		}
	}
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	known := map[string]any{"role": m.Role}
	if _, structured := m.extra["content"]; !structured || m.Content != "" {
		known["content"] = m.Content
	}
	return joinFields(m.extra, known)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	found, extra, err := splitFields(data, "role", "content")
	if err != nil {
		return err
	}

	*m = Message{extra: extra}

	if raw, ok := found["role"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &m.Role); err != nil {
			return fmt.Errorf("decoding role: %w", err)
		}
	}
	if raw, ok := found["content"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &m.Content); err != nil {
			// Structured content (text/image parts) is kept verbatim.
			m.Content = ""
			if m.extra == nil {
				m.extra = map[string]json.RawMessage{}
			}
			m.extra["content"] = raw
		}
	}
	return nil
}

// CreatePromptRequest is the body of POST /prompt.
type CreatePromptRequest struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ProjectID   string     `json:"project_id"`
	PromptData  PromptData `json:"prompt_data"`
}

// UpdatePromptRequest is the body of PATCH /prompt/{id}. Nil fields are left
// unchanged by the server.
type UpdatePromptRequest struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	PromptData  *PromptData `json:"prompt_data,omitempty"`
}

// IsEmpty reports whether the request would change nothing.
func (r UpdatePromptRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.PromptData == nil
}

// listResponse is the envelope of every list endpoint.
type listResponse[T any] struct {
	Objects []T `json:"objects"`
}

// InvokeRequest is the body of POST /function/invoke.
type InvokeRequest struct {
	ProjectName string `json:"project_name"`
	Slug        string `json:"slug"`
	Input       any    `json:"input"`
	Stream      bool   `json:"stream"`
}
