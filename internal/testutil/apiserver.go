// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aretw0/tasks/pkg/core"
)

// APIServer is an in-memory implementation of the remote task service.
// Context ids and task ids come from server-wide sequences and are never renumbered.
type APIServer struct {
	*httptest.Server
	Key string

	mu         sync.Mutex
	contexts   core.Collection
	nextCtxID  int
	nextTaskID int
	requestIDs []string
	failWith   int
}

// NewAPIServer starts a fake service accepting the given bearer key.
// It is closed automatically when the test ends.
func NewAPIServer(t *testing.T, key string) *APIServer {
	t.Helper()

	s := &APIServer{Key: key, contexts: core.Collection{}}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.track)
	e.Use(s.authenticate)
	s.registerRoutes(e)

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Close)
	return s
}

func (s *APIServer) registerRoutes(e *echo.Echo) {
	e.GET("/context", s.handleListContexts)
	e.POST("/context", s.handleCreateContext)
	e.DELETE("/context", s.handleDeleteAllContexts)
	e.POST("/context/clear", s.handleClear)
	e.PUT("/context/:id", s.handleUpdateContext)
	e.DELETE("/context/:id", s.handleDeleteContext)

	e.POST("/task", s.handleCreateTask)
	e.POST("/task/batch", s.handleCreateTasks)
	e.DELETE("/task", s.handleDeleteAllTasks)
	e.PUT("/task/done/:id", s.handleMarkDone)
	e.PUT("/task/:id", s.handleUpdateTask)
	e.DELETE("/task/:id", s.handleDeleteTask)
}

// Snapshot returns a copy of the server state.
func (s *APIServer) Snapshot() core.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(core.Collection, len(s.contexts))
	for i, c := range s.contexts {
		c.Tasks = slices.Clone(c.Tasks)
		out[i] = c
	}
	return out
}

// RequestIDs returns the X-Request-Id header of every request received.
func (s *APIServer) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requestIDs)
}

// FailWith makes every following request answer with status. Zero restores normal service.
func (s *APIServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

func (s *APIServer) track(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, c.Request().Header.Get(echo.HeaderXRequestID))
		status := s.failWith
		s.mu.Unlock()

		if status != 0 {
			return echo.NewHTTPError(status, "injected failure")
		}
		return next(c)
	}
}

func (s *APIServer) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) != "Bearer "+s.Key {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid api key")
		}
		return next(c)
	}
}

func (s *APIServer) handleListContexts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case c.QueryParam("active") == "true":
		i := s.contexts.ActiveIndex()
		if i < 0 {
			return echo.NewHTTPError(http.StatusNotFound, "no active context")
		}
		return c.JSON(http.StatusOK, s.contexts[i])
	case c.QueryParam("count") == "true":
		summaries := s.contexts.Summaries()
		for i := range summaries {
			summaries[i].Position = 0
		}
		return c.JSON(http.StatusOK, summaries)
	default:
		return c.JSON(http.StatusOK, s.contexts)
	}
}

func (s *APIServer) handleCreateContext(c echo.Context) error {
	var in core.ContextInput
	if err := c.Bind(&in); err != nil || in.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.SimpleCreate {
		created := s.newContext(in.Name, in.Active)
		return c.JSON(http.StatusCreated, created)
	}

	if s.contexts.IndexOfName(in.Name) < 0 {
		s.newContext(in.Name, true)
	}
	for i := range s.contexts {
		s.contexts[i].Active = s.contexts[i].Name == in.Name
	}
	return c.JSON(http.StatusOK, s.contexts[s.contexts.IndexOfName(in.Name)])
}

func (s *APIServer) newContext(name string, active bool) core.Context {
	s.nextCtxID++
	created := core.Context{ID: s.nextCtxID, Name: name, Tasks: []core.Task{}, Active: active}
	s.contexts = append(s.contexts, created)
	return created
}

func (s *APIServer) handleUpdateContext(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&in); err != nil || in.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch err := s.contexts.Rename(id, in.Name); {
	case errors.Is(err, core.ErrEntityNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrDuplicateName):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIServer) handleDeleteContext(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.contexts.IndexOfID(id)
	if i < 0 {
		return echo.NewHTTPError(http.StatusNotFound, "context not found")
	}
	s.contexts = slices.Delete(s.contexts, i, i+1)
	return c.NoContent(http.StatusNoContent)
}

func (s *APIServer) handleDeleteAllContexts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts = core.Collection{}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIServer) handleClear(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.contexts.ActiveIndex()
	if i < 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no active context")
	}
	s.contexts[i].Clear()
	return c.NoContent(http.StatusNoContent)
}

func (s *APIServer) handleCreateTask(c echo.Context) error {
	var in core.TaskInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.addTask(in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *APIServer) handleCreateTasks(c echo.Context) error {
	var in []core.TaskInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tasks")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]core.Task, 0, len(in))
	for _, t := range in {
		task, err := s.addTask(t)
		if err != nil {
			return err
		}
		created = append(created, task)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *APIServer) addTask(in core.TaskInput) (core.Task, error) {
	i := s.contexts.ActiveIndex()
	if in.ContextID != 0 {
		i = s.contexts.IndexOfID(in.ContextID)
	}
	if i < 0 {
		return core.Task{}, echo.NewHTTPError(http.StatusNotFound, "context not found")
	}

	now := core.NewTimestamp(time.Now())
	task := core.Task{Content: in.Content, CreationDate: now, ModificationDate: now}
	if in.CreationDate != nil {
		task.CreationDate = *in.CreationDate
	}
	if in.ModificationDate != nil {
		task.ModificationDate = *in.ModificationDate
	}

	s.nextTaskID++
	task.ID = s.nextTaskID
	s.contexts[i].Tasks = append(s.contexts[i].Tasks, task)
	return task, nil
}

// lookupTask resolves :id as a server id, or as a 1-based position in the active
// context when index=true.
func (s *APIServer) lookupTask(c echo.Context) (*core.Task, error) {
	n, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if c.QueryParam("index") == "true" {
		i := s.contexts.ActiveIndex()
		if i < 0 || n < 1 || n > len(s.contexts[i].Tasks) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return &s.contexts[i].Tasks[n-1], nil
	}

	for i := range s.contexts {
		for j := range s.contexts[i].Tasks {
			if s.contexts[i].Tasks[j].ID == n {
				return &s.contexts[i].Tasks[j], nil
			}
		}
	}
	return nil, echo.NewHTTPError(http.StatusNotFound, "task not found")
}

func (s *APIServer) handleUpdateTask(c echo.Context) error {
	var in struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookupTask(c)
	if err != nil {
		return err
	}
	task.Content = in.Content
	task.ModificationDate = core.NewTimestamp(time.Now())
	return c.NoContent(http.StatusNoContent)
}

func (s *APIServer) handleMarkDone(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookupTask(c)
	if err != nil {
		return err
	}
	task.Done = true
	task.ModificationDate = core.NewTimestamp(time.Now())
	return c.NoContent(http.StatusNoContent)
}

func (s *APIServer) handleDeleteTask(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookupTask(c)
	if err != nil {
		return err
	}
	id := task.ID
	for i := range s.contexts {
		s.contexts[i].Tasks = slices.DeleteFunc(s.contexts[i].Tasks, func(t core.Task) bool { return t.ID == id })
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIServer) handleDeleteAllTasks(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contexts {
		s.contexts[i].Clear()
	}
	return c.NoContent(http.StatusNoContent)
}
