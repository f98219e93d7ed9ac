package braintrust

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPromptNotFound  = errors.New("prompt not found")
	ErrProjectNotFound = errors.New("project not found")
)

// APIError is returned for any HTTP response with a status code >= 400.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error (%d): %s", e.StatusCode, e.Body)
}

// NetworkError wraps transport-level failures (DNS, connection refused,
// timeouts).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network Error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ProjectNotFoundError lists the projects that do exist so the user can fix
// a typo.
type ProjectNotFoundError struct {
	Name      string
	Available []string
}

func (e *ProjectNotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Project '%s' not found", e.Name)
	if len(e.Available) > 0 {
		sb.WriteString("\nAvailable projects:")
		for _, name := range e.Available {
			sb.WriteString("\n  - " + name)
		}
	}
	return sb.String()
}

func (e *ProjectNotFoundError) Is(target error) bool {
	return target == ErrProjectNotFound
}

// PromptNotFoundError names the slug that could not be found.
type PromptNotFoundError struct {
	Slug string
}

func (e *PromptNotFoundError) Error() string {
	return fmt.Sprintf("Prompt '%s' not found", e.Slug)
}

func (e *PromptNotFoundError) Is(target error) bool {
	return target == ErrPromptNotFound
}
