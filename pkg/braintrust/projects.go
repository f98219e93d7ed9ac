package braintrust

import (
	"context"
	"net/http"

	"github.com/patrickmn/go-cache"
)

// Projects lists every project visible to the API key.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var resp listResponse[Project]
	if err := c.doRequest(ctx, http.MethodGet, "/project", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Objects, nil
}

// ProjectID resolves a project name to its id. Results are cached for the
// lifetime of the client.
func (c *Client) ProjectID(ctx context.Context, name string) (string, error) {
	if id, ok := c.projectIDs.Get(name); ok {
		return id.(string), nil
	}

	projects, err := c.Projects(ctx)
	if err != nil {
		return "", err
	}

	available := make([]string, 0, len(projects))
	for _, project := range projects {
		c.projectIDs.Set(project.Name, project.ID, cache.DefaultExpiration)
		available = append(available, project.Name)
	}

	for _, project := range projects {
		if project.Name == name {
			return project.ID, nil
		}
	}

	return "", &ProjectNotFoundError{Name: name, Available: available}
}
