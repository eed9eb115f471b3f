package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tasks/pkg/core"
)

// MockBackend implements core.DocumentBackend in memory.
// Documents go through JSON on every load/persist, like the real backends.
type MockBackend struct {
	doc         []byte
	persists    int
	persistErr  error
	loadErr     error
	lastCreated bool
}

func (m *MockBackend) Load(ctx context.Context, createIfMissing bool) (core.Collection, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.doc == nil {
		if !createIfMissing {
			return nil, core.ErrNotFound
		}
		m.doc = []byte("[]")
		m.lastCreated = true
	}
	var c core.Collection
	if err := json.Unmarshal(m.doc, &c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *MockBackend) Persist(ctx context.Context, c core.Collection) error {
	if m.persistErr != nil {
		return m.persistErr
	}
	if c == nil {
		c = core.Collection{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	m.doc = data
	m.persists++
	return nil
}

func (m *MockBackend) snapshot(t *testing.T) core.Collection {
	t.Helper()
	c, err := m.Load(context.Background(), false)
	require.NoError(t, err)
	return c
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

func setupStore(t *testing.T) (*core.DocumentStore, *MockBackend) {
	t.Helper()
	backend := &MockBackend{}
	store := core.NewDocumentStore(backend, core.KindLocal, core.WithClock(func() time.Time { return fixedNow }))
	return store, backend
}

func TestDocumentStore_WorkedExample(t *testing.T) {
	store, backend := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.UseContext(ctx, "work"))
	data := backend.snapshot(t)
	require.Len(t, data, 1)
	assert.Equal(t, 1, data[0].ID)
	assert.Equal(t, "work", data[0].Name)
	assert.True(t, data[0].Active)
	assert.Empty(t, data[0].Tasks)

	task, err := store.AddTask(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, "buy milk", task.Content)
	assert.False(t, task.Done)
	assert.True(t, task.CreationDate.Equal(fixedNow))
	assert.True(t, task.ModificationDate.Equal(fixedNow))

	require.NoError(t, store.MarkDone(ctx, "1"))
	data = backend.snapshot(t)
	assert.True(t, data[0].Tasks[0].Done)

	require.NoError(t, store.DeleteTasks(ctx, "1"))
	data = backend.snapshot(t)
	assert.Empty(t, data[0].Tasks)

	task, err = store.AddTask(ctx, "again")
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID, "ids restart after the list is emptied")
}

func TestDocumentStore_DenseIDs(t *testing.T) {
	store, backend := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.UseContext(ctx, "home"))

	for i := 0; i < 5; i++ {
		_, err := store.AddTask(ctx, "task")
		require.NoError(t, err)
	}

	data := backend.snapshot(t)
	for i, task := range data[0].Tasks {
		assert.Equal(t, i+1, task.ID)
	}

	require.NoError(t, store.DeleteTasks(ctx, "2,4"))
	data = backend.snapshot(t)
	require.Len(t, data[0].Tasks, 3)
	for i, task := range data[0].Tasks {
		assert.Equal(t, i+1, task.ID)
	}
}

func TestDocumentStore_DeleteTasksSkipsMalformed(t *testing.T) {
	store, backend := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.UseContext(ctx, "home"))
	for _, c := range []string{"a", "b", "c"} {
		_, err := store.AddTask(ctx, c)
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteTasks(ctx, "x,2,,9"))

	data := backend.snapshot(t)
	require.Len(t, data[0].Tasks, 2)
	assert.Equal(t, "a", data[0].Tasks[0].Content)
	assert.Equal(t, "c", data[0].Tasks[1].Content)
	assert.Equal(t, 2, data[0].Tasks[1].ID)
}

func TestDocumentStore_UseContext(t *testing.T) {
	t.Run("Single Active", func(t *testing.T) {
		store, backend := setupStore(t)
		ctx := context.Background()

		require.NoError(t, store.UseContext(ctx, "a"))
		require.NoError(t, store.UseContext(ctx, "b"))
		require.NoError(t, store.UseContext(ctx, "c"))
		require.NoError(t, store.UseContext(ctx, "b"))

		data := backend.snapshot(t)
		require.Len(t, data, 3)
		for _, c := range data {
			assert.Equal(t, c.Name == "b", c.Active, c.Name)
		}
		assert.Equal(t, []int{1, 2, 3}, []int{data[0].ID, data[1].ID, data[2].ID})
	})

	t.Run("Idempotent", func(t *testing.T) {
		store, backend := setupStore(t)
		ctx := context.Background()

		require.NoError(t, store.UseContext(ctx, "x"))
		first := backend.snapshot(t)
		require.NoError(t, store.UseContext(ctx, "x"))
		assert.Equal(t, first, backend.snapshot(t))
	})

	t.Run("Empty Name", func(t *testing.T) {
		store, backend := setupStore(t)
		assert.Error(t, store.UseContext(context.Background(), ""))
		assert.Zero(t, backend.persists)
	})
}

func TestDocumentStore_NoActiveContext(t *testing.T) {
	store, backend := setupStore(t)
	ctx := context.Background()

	_, err := store.AddTask(ctx, "nothing to add to")
	assert.ErrorIs(t, err, core.ErrNoActiveContext)
	assert.ErrorIs(t, store.MarkDone(ctx, "1"), core.ErrNoActiveContext)
	assert.ErrorIs(t, store.ClearTasks(ctx), core.ErrNoActiveContext)
	_, err = store.ListTasks(ctx, false)
	assert.ErrorIs(t, err, core.ErrNoActiveContext)
	assert.Zero(t, backend.persists)

	// Listing contexts and all tasks works on an empty collection.
	summaries, err := store.ListContexts(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
	all, err := store.ListTasks(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDocumentStore_DeleteContexts(t *testing.T) {
	t.Run("Active Survives", func(t *testing.T) {
		store, backend := setupStore(t)
		ctx := context.Background()
		require.NoError(t, store.UseContext(ctx, "first"))
		require.NoError(t, store.UseContext(ctx, "second"))

		require.NoError(t, store.DeleteContexts(ctx, "first"))

		data := backend.snapshot(t)
		require.Len(t, data, 1)
		assert.Equal(t, "second", data[0].Name)
		assert.True(t, data[0].Active)
		assert.Equal(t, 2, data[0].ID, "context ids are not renumbered")
	})

	t.Run("Active Removed Promotes First Survivor", func(t *testing.T) {
		store, backend := setupStore(t)
		ctx := context.Background()
		for _, name := range []string{"a", "b", "c"} {
			require.NoError(t, store.UseContext(ctx, name))
		}

		require.NoError(t, store.DeleteContexts(ctx, "3"))

		data := backend.snapshot(t)
		require.Len(t, data, 2)
		assert.True(t, data[0].Active)
		assert.False(t, data[1].Active)
	})

	t.Run("Numeric Name", func(t *testing.T) {
		store, backend := setupStore(t)
		ctx := context.Background()
		require.NoError(t, store.UseContext(ctx, "2024"))
		require.NoError(t, store.UseContext(ctx, "home"))

		require.NoError(t, store.DeleteContexts(ctx, "2024"))

		data := backend.snapshot(t)
		require.Len(t, data, 1)
		assert.Equal(t, "home", data[0].Name)
	})

	t.Run("Positions Resolve Against Snapshot", func(t *testing.T) {
		store, backend := setupStore(t)
		ctx := context.Background()
		for _, name := range []string{"a", "b", "c", "d"} {
			require.NoError(t, store.UseContext(ctx, name))
		}

		require.NoError(t, store.DeleteContexts(ctx, "1,2,missing"))

		data := backend.snapshot(t)
		require.Len(t, data, 2)
		assert.Equal(t, "c", data[0].Name)
		assert.Equal(t, "d", data[1].Name)
		assert.True(t, data[1].Active)
	})
}

func TestDocumentStore_MarkDoneUnknownID(t *testing.T) {
	store, backend := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.UseContext(ctx, "work"))
	_, err := store.AddTask(ctx, "only one")
	require.NoError(t, err)
	before := backend.snapshot(t)

	require.NoError(t, store.MarkDone(ctx, "5"))
	assert.Equal(t, before, backend.snapshot(t))
}

func TestDocumentStore_Edit(t *testing.T) {
	store, backend := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.UseContext(ctx, "work"))
	_, err := store.AddTask(ctx, "draft")
	require.NoError(t, err)

	require.NoError(t, store.EditTask(ctx, 1, "final"))
	assert.Equal(t, "final", backend.snapshot(t)[0].Tasks[0].Content)

	persists := backend.persists
	err = store.EditTask(ctx, 7, "nope")
	assert.ErrorIs(t, err, core.ErrEntityNotFound)
	err = store.EditContext(ctx, 9, "nope")
	assert.ErrorIs(t, err, core.ErrEntityNotFound)
	assert.Equal(t, persists, backend.persists, "lookup misses must not persist")

	require.NoError(t, store.UseContext(ctx, "home"))
	assert.ErrorIs(t, store.EditContext(ctx, 1, "home"), core.ErrDuplicateName)
	require.NoError(t, store.EditContext(ctx, 1, "office"))
	assert.Equal(t, "office", backend.snapshot(t)[0].Name)
}

func TestDocumentStore_ClearAndList(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.UseContext(ctx, "a"))
	_, err := store.AddTask(ctx, "one")
	require.NoError(t, err)
	require.NoError(t, store.UseContext(ctx, "b"))
	_, err = store.AddTask(ctx, "two")
	require.NoError(t, err)

	require.NoError(t, store.ClearTasks(ctx))

	active, err := store.ListTasks(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].Name)
	assert.Empty(t, active[0].Tasks)

	summaries, err := store.ListContexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.ContextSummary{
		{Position: 1, ID: 1, Name: "a", TaskCount: 1, Active: false},
		{Position: 2, ID: 2, Name: "b", TaskCount: 0, Active: true},
	}, summaries)
}

func TestDocumentStore_BackendErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Load Failure", func(t *testing.T) {
		backend := &MockBackend{loadErr: core.ErrConnection}
		store := core.NewDocumentStore(backend, core.KindSSH)
		err := store.UseContext(ctx, "x")
		assert.ErrorIs(t, err, core.ErrConnection)
	})

	t.Run("Persist Failure Discards Mutation", func(t *testing.T) {
		store, backend := setupStore(t)
		require.NoError(t, store.UseContext(ctx, "x"))
		before := backend.snapshot(t)

		backend.persistErr = errors.New("disk full")
		_, err := store.AddTask(ctx, "lost")
		assert.ErrorContains(t, err, "disk full")

		backend.persistErr = nil
		assert.Equal(t, before, backend.snapshot(t))
	})
}

func TestDocumentStore_State(t *testing.T) {
	store, _ := setupStore(t)
	state, ok := store.State().(core.StoreState)
	require.True(t, ok)
	assert.Equal(t, core.KindLocal, state.Kind)
	assert.True(t, state.RenumbersTasks)
	assert.Equal(t, "unknown", state.BackendType)
}
