// Package prompt holds the pure helpers used to read, build and compare chat
// prompt messages.
package prompt

import "github.com/vvoland/btprompt/pkg/braintrust"

// SystemUser returns the content of the last system and the last user
// message. Messages with structured content count as empty.
func SystemUser(messages []braintrust.Message) (system, user string) {
	for _, m := range messages {
		switch m.Role {
		case braintrust.RoleSystem:
			system = m.Content
		case braintrust.RoleUser:
			user = m.Content
		}
	}
	return system, user
}

// Build returns a system message followed by a user message, leaving out
// the empty ones.
func Build(system, user string) []braintrust.Message {
	var messages []braintrust.Message
	if system != "" {
		messages = append(messages, braintrust.NewMessage(braintrust.RoleSystem, system))
	}
	if user != "" {
		messages = append(messages, braintrust.NewMessage(braintrust.RoleUser, user))
	}
	return messages
}

// Merge applies new system/user content to current. Existing messages are
// updated in place so other roles and their order survive; a missing system
// message is prepended and a missing user message appended. Empty system or
// user leaves that role untouched.
func Merge(current []braintrust.Message, system, user string) []braintrust.Message {
	merged := make([]braintrust.Message, len(current))
	copy(merged, current)

	var hasSystem, hasUser bool
	for i := range merged {
		switch merged[i].Role {
		case braintrust.RoleSystem:
			hasSystem = true
			if system != "" {
				merged[i].Content = system
			}
		case braintrust.RoleUser:
			hasUser = true
			if user != "" {
				merged[i].Content = user
			}
		}
	}

	if system != "" && !hasSystem {
		merged = append([]braintrust.Message{braintrust.NewMessage(braintrust.RoleSystem, system)}, merged...)
	}
	if user != "" && !hasUser {
		merged = append(merged, braintrust.NewMessage(braintrust.RoleUser, user))
	}
	return merged
}
