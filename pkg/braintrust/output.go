package braintrust

import "strings"

// ExtractOutput pulls the generated text out of the shapes an invocation can
// return: a plain string, an OpenAI-style list of choices, an Anthropic-style
// content block list, or an object with a content/text/output field. Anything
// else is returned unchanged.
func ExtractOutput(raw any) any {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)

	case []any:
		if len(v) == 0 {
			return raw
		}
		first, ok := v[0].(map[string]any)
		if !ok {
			return raw
		}
		if message, ok := first["message"].(map[string]any); ok {
			if content, ok := message["content"].(string); ok && content != "" {
				return strings.TrimSpace(content)
			}
		}
		switch content := first["content"].(type) {
		case []any:
			if text, ok := firstTextBlock(content); ok {
				return text
			}
		case string:
			return strings.TrimSpace(content)
		}

	case map[string]any:
		for _, key := range []string{"content", "text", "output"} {
			if s, ok := v[key].(string); ok {
				return strings.TrimSpace(s)
			}
		}
		if content, ok := v["content"].([]any); ok {
			if text, ok := firstTextBlock(content); ok {
				return text
			}
		}
	}

	return raw
}

func firstTextBlock(blocks []any) (string, bool) {
	for _, b := range blocks {
		block, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if block["type"] == "text" {
			text, _ := block["text"].(string)
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}
