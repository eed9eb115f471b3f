package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tasks/internal/testutil"
	"github.com/aretw0/tasks/pkg/adapters/api"
	"github.com/aretw0/tasks/pkg/core"
)

func setupClient(t *testing.T) (*api.Client, *testutil.APIServer) {
	t.Helper()
	server := testutil.NewAPIServer(t, "secret")
	client := api.NewClient(api.Config{BaseURL: server.URL + "/", APIKey: "secret"})
	return client, server
}

func TestClient_Contexts(t *testing.T) {
	client, server := setupClient(t)
	ctx := context.Background()

	_, err := client.ActiveContext(ctx)
	assert.ErrorIs(t, err, core.ErrNoActiveContext)

	work, err := client.UseContext(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, "work", work.Name)
	assert.True(t, work.Active)

	_, err = client.UseContext(ctx, "home")
	require.NoError(t, err)

	active, err := client.ActiveContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "home", active.Name)

	summaries, err := client.CountContexts(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "work", summaries[0].Name)
	assert.False(t, summaries[0].Active)

	require.NoError(t, client.UpdateContext(ctx, work.ID, "office"))
	assert.Equal(t, "office", server.Snapshot()[0].Name)

	err = client.UpdateContext(ctx, 99, "nope")
	assert.ErrorIs(t, err, core.ErrEntityNotFound)

	require.NoError(t, client.DeleteContext(ctx, work.ID))
	all, err := client.ListContexts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "home", all[0].Name)

	require.NoError(t, client.DeleteAllContexts(ctx))
	all, err = client.ListContexts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClient_Tasks(t *testing.T) {
	client, server := setupClient(t)
	ctx := context.Background()

	work, err := client.UseContext(ctx, "work")
	require.NoError(t, err)

	first, err := client.CreateTask(ctx, core.TaskInput{Content: "buy milk", ContextID: work.ID})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", first.Content)
	assert.False(t, first.CreationDate.IsZero())

	require.NoError(t, client.CreateTasks(ctx, []core.TaskInput{
		{Content: "call bob", ContextID: work.ID},
		{Content: "write report", ContextID: work.ID},
	}))

	require.NoError(t, client.MarkDone(ctx, 2))
	require.NoError(t, client.UpdateTask(ctx, 3, "write summary"))
	assert.ErrorIs(t, client.MarkDone(ctx, 9), core.ErrEntityNotFound)

	require.NoError(t, client.DeleteTask(ctx, first.ID))

	tasks := server.Snapshot()[0].Tasks
	require.Len(t, tasks, 2)
	assert.Equal(t, "call bob", tasks[0].Content)
	assert.True(t, tasks[0].Done)
	assert.Equal(t, "write summary", tasks[1].Content)
	assert.Equal(t, 3, tasks[1].ID, "server ids are not renumbered")

	require.NoError(t, client.ClearActive(ctx))
	assert.Empty(t, server.Snapshot()[0].Tasks)

	require.NoError(t, client.CreateTasks(ctx, []core.TaskInput{{Content: "x", ContextID: work.ID}}))
	require.NoError(t, client.DeleteAllTasks(ctx))
	assert.Empty(t, server.Snapshot()[0].Tasks)
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Wrong Key", func(t *testing.T) {
		server := testutil.NewAPIServer(t, "secret")
		client := api.NewClient(api.Config{BaseURL: server.URL, APIKey: "wrong"})

		_, err := client.ListContexts(ctx)
		assert.ErrorIs(t, err, core.ErrConnection)

		var statusErr *api.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
		assert.Equal(t, "invalid api key", statusErr.Message)
	})

	t.Run("Server Error", func(t *testing.T) {
		client, server := setupClient(t)
		server.FailWith(http.StatusInternalServerError)

		_, err := client.UseContext(ctx, "work")
		var statusErr *api.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
		assert.NotErrorIs(t, err, core.ErrConnection)
		assert.NotErrorIs(t, err, core.ErrEntityNotFound)
	})

	t.Run("Unreachable", func(t *testing.T) {
		server := testutil.NewAPIServer(t, "secret")
		url := server.URL
		server.Close()

		client := api.NewClient(api.Config{BaseURL: url, APIKey: "secret"})
		_, err := client.CountContexts(ctx)
		assert.ErrorIs(t, err, core.ErrConnection)
	})
}

func TestClient_RequestIDs(t *testing.T) {
	client, server := setupClient(t)
	ctx := context.Background()

	_, err := client.UseContext(ctx, "work")
	require.NoError(t, err)
	_, err = client.ListContexts(ctx)
	require.NoError(t, err)

	ids := server.RequestIDs()
	require.Len(t, ids, 2)
	for _, id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, ids[0], ids[1])

	state, ok := client.State().(api.ClientState)
	require.True(t, ok)
	assert.Equal(t, 2, state.Requests)
	assert.Equal(t, ids[1], state.LastRequestID)
	assert.True(t, state.Authenticated)
}

func TestClient_EntityStore(t *testing.T) {
	client, server := setupClient(t)
	store := core.NewEntityStore(client)
	ctx := context.Background()

	require.NoError(t, store.UseContext(ctx, "a"))
	require.NoError(t, store.UseContext(ctx, "b"))
	for _, c := range []string{"one", "two", "three"} {
		_, err := store.AddTask(ctx, c)
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteTasks(ctx, "1,3"))
	require.NoError(t, store.MarkDone(ctx, "1"))
	require.NoError(t, store.DeleteContexts(ctx, "b"))

	snapshot := server.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "a", snapshot[0].Name)
	assert.True(t, snapshot[0].Active, "first survivor is promoted")

	summaries, err := store.ListContexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.ContextSummary{{Position: 1, ID: 1, Name: "a", TaskCount: 0, Active: true}}, summaries)
}
