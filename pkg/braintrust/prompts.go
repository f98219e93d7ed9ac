package braintrust

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// ListPrompts lists prompts, following pagination until the last page. When
// projectName is set, only that project's prompts are returned.
func (c *Client) ListPrompts(ctx context.Context, projectName string) ([]Prompt, error) {
	var projectID string
	if projectName != "" {
		id, err := c.ProjectID(ctx, projectName)
		if err != nil {
			return nil, err
		}
		projectID = id
	}

	var (
		prompts []Prompt
		cursor  string
		seen    = map[string]bool{}
		cursors = map[string]bool{}
	)
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageSize))
		if projectID != "" {
			query.Set("project_id", projectID)
		}
		if cursor != "" {
			query.Set("starting_after", cursor)
		}

		var page listResponse[Prompt]
		if err := c.doRequest(ctx, http.MethodGet, "/prompt", query, nil, &page); err != nil {
			return nil, err
		}

		for _, p := range page.Objects {
			if p.ID != "" {
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
			}
			if projectID != "" && p.ProjectID != projectID {
				continue
			}
			prompts = append(prompts, p)
		}

		if len(page.Objects) < c.pageSize {
			break
		}
		next := page.Objects[len(page.Objects)-1].ID
		if next == "" || cursors[next] {
			// The server ignored the cursor; stop instead of looping forever.
			slog.Debug("Stopping pagination on repeated cursor", "cursor", next)
			break
		}
		cursors[next] = true
		cursor = next
	}

	return prompts, nil
}

// GetPrompt finds a prompt by slug. It returns a *PromptNotFoundError
// (matching ErrPromptNotFound) when no prompt has that slug.
func (c *Client) GetPrompt(ctx context.Context, slug, projectName string) (*Prompt, error) {
	prompts, err := c.ListPrompts(ctx, projectName)
	if err != nil {
		return nil, err
	}

	for i := range prompts {
		if prompts[i].Slug == slug {
			return &prompts[i], nil
		}
	}

	return nil, &PromptNotFoundError{Slug: slug}
}

func (c *Client) CreatePrompt(ctx context.Context, req CreatePromptRequest) (*Prompt, error) {
	var prompt Prompt
	if err := c.doRequest(ctx, http.MethodPost, "/prompt", nil, req, &prompt); err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (c *Client) UpdatePrompt(ctx context.Context, id string, req UpdatePromptRequest) (*Prompt, error) {
	var prompt Prompt
	if err := c.doRequest(ctx, http.MethodPatch, "/prompt/"+url.PathEscape(id), nil, req, &prompt); err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (c *Client) DeletePrompt(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/prompt/"+url.PathEscape(id), nil, nil, nil)
}
