package fake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vvoland/btprompt/pkg/braintrust"
)

// Invocation records a call to /function/invoke.
type Invocation struct {
	ProjectName string
	Slug        string
	Input       any
}

// InvokeFunc produces the raw response of an invocation.
type InvokeFunc func(inv Invocation) (any, error)

type injectedError struct {
	method string
	path   string
	status int
	body   string
}

// BraintrustAPI is an in-memory stand-in for the Braintrust REST API, good
// enough for the endpoints btprompt uses.
type BraintrustAPI struct {
	apiKey string

	mu          sync.Mutex
	projects    []braintrust.Project
	prompts     []braintrust.Prompt
	rawPrompts  map[string]json.RawMessage
	invocations []Invocation
	requests    []string
	errors      []injectedError
	invoke      InvokeFunc
}

func NewBraintrustAPI(apiKey string) *BraintrustAPI {
	return &BraintrustAPI{
		apiKey: apiKey,
		invoke: func(inv Invocation) (any, error) {
			input, _ := json.Marshal(inv.Input)
			return fmt.Sprintf("%s output for %s\n", inv.Slug, input), nil
		},
	}
}

// Start serves the API on a local listener. The returned base URL already
// contains the /v1 prefix.
func (s *BraintrustAPI) Start() (string, func()) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	v1 := e.Group("/v1", s.recordAndAuthorize)
	v1.GET("/project", s.listProjects)
	v1.GET("/prompt", s.listPrompts)
	v1.POST("/prompt", s.createPrompt)
	v1.PATCH("/prompt/:id", s.updatePrompt)
	v1.DELETE("/prompt/:id", s.deletePrompt)
	v1.POST("/function/invoke", s.invokeFunction)

	srv := httptest.NewServer(e)
	return srv.URL + "/v1", srv.Close
}

func (s *BraintrustAPI) AddProject(name string) braintrust.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := braintrust.Project{ID: uuid.New().String(), Name: name}
	s.projects = append(s.projects, project)
	return project
}

// AddPrompt stores p, assigning an id when it has none.
func (s *BraintrustAPI) AddPrompt(p braintrust.Prompt) braintrust.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.prompts = append(s.prompts, p)
	return p
}

// AddPromptJSON stores a prompt record given as JSON. Until the prompt is
// updated, it is served back byte for byte, keys the client doesn't model
// included.
func (s *BraintrustAPI) AddPromptJSON(record string) (braintrust.Prompt, error) {
	var p braintrust.Prompt
	if err := json.Unmarshal([]byte(record), &p); err != nil {
		return braintrust.Prompt{}, err
	}
	if p.ID == "" {
		return braintrust.Prompt{}, fmt.Errorf("prompt record has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rawPrompts == nil {
		s.rawPrompts = map[string]json.RawMessage{}
	}
	s.rawPrompts[p.ID] = json.RawMessage(record)
	s.prompts = append(s.prompts, p)
	return p, nil
}

// Prompt returns the stored prompt with the given slug.
func (s *BraintrustAPI) Prompt(slug string) (braintrust.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.prompts {
		if p.Slug == slug {
			return p, true
		}
	}
	return braintrust.Prompt{}, false
}

func (s *BraintrustAPI) Invocations() []Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.invocations)
}

// Requests returns "METHOD /path" for every request received, in order.
func (s *BraintrustAPI) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func (s *BraintrustAPI) SetInvokeFunc(fn InvokeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoke = fn
}

// FailRequests makes every request matching method and path prefix fail
// with status and body.
func (s *BraintrustAPI) FailRequests(method, pathPrefix string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, injectedError{method: method, path: pathPrefix, status: status, body: body})
}

func (s *BraintrustAPI) recordAndAuthorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		path := strings.TrimPrefix(req.URL.Path, "/v1")

		s.mu.Lock()
		s.requests = append(s.requests, req.Method+" "+path)
		var injected *injectedError
		for i := range s.errors {
			if s.errors[i].method == req.Method && strings.HasPrefix(path, s.errors[i].path) {
				injected = &s.errors[i]
				break
			}
		}
		s.mu.Unlock()

		if req.Header.Get("Authorization") != "Bearer "+s.apiKey {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid API key"})
		}
		if injected != nil {
			return c.String(injected.status, injected.body)
		}
		return next(c)
	}
}

func (s *BraintrustAPI) listProjects(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"objects": slices.Clone(s.projects)})
}

func (s *BraintrustAPI) listPrompts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectID := c.QueryParam("project_id")
	var filtered []braintrust.Prompt
	for _, p := range s.prompts {
		if projectID == "" || p.ProjectID == projectID {
			filtered = append(filtered, p)
		}
	}

	if after := c.QueryParam("starting_after"); after != "" {
		idx := slices.IndexFunc(filtered, func(p braintrust.Prompt) bool { return p.ID == after })
		if idx < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown cursor " + after})
		}
		filtered = filtered[idx+1:]
	}

	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	objects := make([]any, 0, len(filtered))
	for _, p := range filtered {
		if raw, ok := s.rawPrompts[p.ID]; ok {
			objects = append(objects, raw)
			continue
		}
		objects = append(objects, p)
	}

	return c.JSON(http.StatusOK, map[string]any{"objects": objects})
}

func (s *BraintrustAPI) createPrompt(c echo.Context) error {
	var req braintrust.CreatePromptRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.prompts {
		if p.Slug == req.Slug && p.ProjectID == req.ProjectID {
			return c.JSON(http.StatusConflict, map[string]string{"error": "slug already exists"})
		}
	}

	prompt := braintrust.Prompt{
		ID:          uuid.New().String(),
		ProjectID:   req.ProjectID,
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		PromptData:  req.PromptData,
	}
	s.prompts = append(s.prompts, prompt)

	return c.JSON(http.StatusOK, prompt)
}

func (s *BraintrustAPI) updatePrompt(c echo.Context) error {
	var req braintrust.UpdatePromptRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.prompts, func(p braintrust.Prompt) bool { return p.ID == c.Param("id") })
	if idx < 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "prompt not found"})
	}

	prompt := &s.prompts[idx]
	delete(s.rawPrompts, prompt.ID)
	if req.Name != nil {
		prompt.Name = *req.Name
	}
	if req.Description != nil {
		prompt.Description = *req.Description
	}
	if req.PromptData != nil {
		prompt.PromptData = *req.PromptData
	}

	return c.JSON(http.StatusOK, *prompt)
}

func (s *BraintrustAPI) deletePrompt(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.prompts, func(p braintrust.Prompt) bool { return p.ID == c.Param("id") })
	if idx < 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "prompt not found"})
	}

	deleted := s.prompts[idx]
	delete(s.rawPrompts, deleted.ID)
	s.prompts = slices.Delete(s.prompts, idx, idx+1)
	return c.JSON(http.StatusOK, deleted)
}

func (s *BraintrustAPI) invokeFunction(c echo.Context) error {
	var req braintrust.InvokeRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	inv := Invocation{ProjectName: req.ProjectName, Slug: req.Slug, Input: req.Input}

	s.mu.Lock()
	s.invocations = append(s.invocations, inv)
	invoke := s.invoke
	s.mu.Unlock()

	out, err := invoke(inv)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
