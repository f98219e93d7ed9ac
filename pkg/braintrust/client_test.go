package braintrust_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvoland/btprompt/pkg/braintrust"
	"github.com/vvoland/btprompt/pkg/fake"
)

const testAPIKey = "sk-test"

func newTestClient(t *testing.T, api *fake.BraintrustAPI, opts ...braintrust.ClientOption) *braintrust.Client {
	t.Helper()

	baseURL, stop := api.Start()
	t.Cleanup(stop)

	client, err := braintrust.NewClient(testAPIKey, append([]braintrust.ClientOption{braintrust.WithBaseURL(baseURL)}, opts...)...)
	require.NoError(t, err)
	return client
}

func chatPrompt(projectID, slug, system, user string) braintrust.Prompt {
	return braintrust.Prompt{
		ProjectID: projectID,
		Slug:      slug,
		Name:      slug,
		PromptData: braintrust.PromptData{
			Prompt: &braintrust.PromptBlock{
				Type: "chat",
				Messages: []braintrust.Message{
					braintrust.NewMessage(braintrust.RoleSystem, system),
					braintrust.NewMessage(braintrust.RoleUser, user),
				},
			},
		},
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := braintrust.NewClient("")
	require.Error(t, err)

	_, err = braintrust.NewClient(testAPIKey, braintrust.WithBaseURL("ftp://example.com"))
	require.ErrorContains(t, err, "must be an http(s) URL")

	client, err := braintrust.NewClient(testAPIKey)
	require.NoError(t, err)
	assert.Equal(t, braintrust.DefaultBaseURL, client.BaseURL())

	client, err = braintrust.NewClient(testAPIKey, braintrust.WithBaseURL("http://localhost:8000/v1/"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/v1", client.BaseURL())
}

func TestProjectID(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	alpha := api.AddProject("alpha")
	api.AddProject("beta")
	client := newTestClient(t, api)

	id, err := client.ProjectID(t.Context(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, alpha.ID, id)

	// Served from the cache.
	_, err = client.ProjectID(t.Context(), "beta")
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /project"}, api.Requests())

	_, err = client.ProjectID(t.Context(), "gamma")
	require.ErrorIs(t, err, braintrust.ErrProjectNotFound)
	assert.Equal(t, "Project 'gamma' not found\nAvailable projects:\n  - alpha\n  - beta", err.Error())
}

func TestListPromptsPaginates(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	project := api.AddProject("alpha")
	other := api.AddProject("other")
	for i := range 5 {
		api.AddPrompt(chatPrompt(project.ID, fmt.Sprintf("p%d", i), "s", "u"))
	}
	api.AddPrompt(chatPrompt(other.ID, "elsewhere", "s", "u"))
	client := newTestClient(t, api, braintrust.WithPageSize(2))

	prompts, err := client.ListPrompts(t.Context(), "alpha")
	require.NoError(t, err)

	var slugs []string
	for _, p := range prompts {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4"}, slugs)

	all, err := client.ListPrompts(t.Context(), "")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestListPrompts_CursorIgnored(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"objects":[{"id":"a","slug":"a"},{"id":"b","slug":"b"}]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := braintrust.NewClient(testAPIKey, braintrust.WithBaseURL(srv.URL), braintrust.WithPageSize(2))
	require.NoError(t, err)

	prompts, err := client.ListPrompts(t.Context(), "")
	require.NoError(t, err)

	require.Len(t, prompts, 2)
	assert.Equal(t, "a", prompts[0].Slug)
	assert.Equal(t, "b", prompts[1].Slug)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetPrompt(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	project := api.AddProject("alpha")
	api.AddPrompt(chatPrompt(project.ID, "greeter", "Be nice.", "Hi {{name}}"))
	client := newTestClient(t, api)

	prompt, err := client.GetPrompt(t.Context(), "greeter", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "greeter", prompt.Slug)
	require.Len(t, prompt.Messages(), 2)
	assert.Equal(t, "Hi {{name}}", prompt.Messages()[1].Content)

	_, err = client.GetPrompt(t.Context(), "missing", "alpha")
	require.ErrorIs(t, err, braintrust.ErrPromptNotFound)
	assert.Equal(t, "Prompt 'missing' not found", err.Error())

	_, err = client.GetPrompt(t.Context(), "greeter", "nope")
	require.ErrorIs(t, err, braintrust.ErrProjectNotFound)
}

func TestCreateUpdateDeletePrompt(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	project := api.AddProject("alpha")
	client := newTestClient(t, api)

	created, err := client.CreatePrompt(t.Context(), braintrust.CreatePromptRequest{
		Name:       "Greeter",
		Slug:       "greeter",
		ProjectID:  project.ID,
		PromptData: chatPrompt(project.ID, "greeter", "s", "u").PromptData,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	name := "Renamed"
	updated, err := client.UpdatePrompt(t.Context(), created.ID, braintrust.UpdatePromptRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "u", updated.Messages()[1].Content)

	require.NoError(t, client.DeletePrompt(t.Context(), created.ID))
	_, ok := api.Prompt("greeter")
	assert.False(t, ok)

	err = client.DeletePrompt(t.Context(), created.ID)
	apiErr, ok := errors.AsType[*braintrust.APIError](err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	api.FailRequests(http.MethodGet, "/project", http.StatusInternalServerError, "boom")
	client := newTestClient(t, api)

	_, err := client.Projects(t.Context())
	require.EqualError(t, err, "API Error (500): boom")
}

func TestUnauthorized(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	baseURL, stop := api.Start()
	t.Cleanup(stop)

	client, err := braintrust.NewClient("sk-wrong", braintrust.WithBaseURL(baseURL))
	require.NoError(t, err)

	_, err = client.Projects(t.Context())
	apiErr, ok := errors.AsType[*braintrust.APIError](err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestNetworkError(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	baseURL, stop := api.Start()
	stop()

	client, err := braintrust.NewClient(testAPIKey, braintrust.WithBaseURL(baseURL), braintrust.WithTimeout(5*time.Second))
	require.NoError(t, err)

	_, err = client.Projects(t.Context())
	_, ok := errors.AsType[*braintrust.NetworkError](err)
	require.True(t, ok, "got %T: %v", err, err)
	assert.Contains(t, err.Error(), "Network Error: ")
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	client := newTestClient(t, api)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.Projects(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	api.SetInvokeFunc(func(inv fake.Invocation) (any, error) {
		return map[string]any{
			"content": []any{map[string]any{"type": "text", "text": "  Hello, Ada!\n"}},
		}, nil
	})
	client := newTestClient(t, api)

	result, err := client.Invoke(t.Context(), "alpha", "greeter", map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada!", result.Output)
	assert.NotNil(t, result.Raw)

	_, err = client.Invoke(t.Context(), "alpha", "greeter", nil)
	require.NoError(t, err)

	invocations := api.Invocations()
	require.Len(t, invocations, 2)
	assert.Equal(t, fake.Invocation{ProjectName: "alpha", Slug: "greeter", Input: map[string]any{"name": "Ada"}}, invocations[0])
	assert.Equal(t, map[string]any{}, invocations[1].Input)
}

func TestInvokeFailure(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	api.SetInvokeFunc(func(fake.Invocation) (any, error) {
		return nil, errors.New("model overloaded")
	})
	client := newTestClient(t, api)

	_, err := client.Invoke(t.Context(), "alpha", "greeter", nil)
	apiErr, ok := errors.AsType[*braintrust.APIError](err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "model overloaded")
}

func TestGetPrompt_RawRecord(t *testing.T) {
	t.Parallel()

	api := fake.NewBraintrustAPI(testAPIKey)
	project := api.AddProject("alpha")
	_, err := api.AddPromptJSON(`{"id":"p1","_xact_id":"1000192","project_id":"` + project.ID + `","org_id":"o1","slug":"a","name":"A","description":"","tags":["x"],"metadata":null,"function_type":null,"prompt_data":{"prompt":{"type":"chat","messages":[{"role":"user","content":"hi"}]}}}`)
	require.NoError(t, err)
	client := newTestClient(t, api)

	p, err := client.GetPrompt(t.Context(), "a", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "A", p.Name)

	raw, err := p.Raw()
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(raw, &record))
	for _, key := range []string{"_xact_id", "org_id", "tags", "metadata", "function_type", "description"} {
		assert.Contains(t, record, key)
	}
	assert.Less(t, bytes.Index(raw, []byte(`"type"`)), bytes.Index(raw, []byte(`"messages"`)))
}

func TestPromptRaw_LocalPrompt(t *testing.T) {
	t.Parallel()

	p := chatPrompt("proj", "local", "sys", "usr")
	raw, err := p.Raw()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"slug":"local"`)
}
