package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tasks/pkg/core"
)

func TestCollection_Use(t *testing.T) {
	var c core.Collection
	c = c.Use("work")
	assert.Equal(t, core.Collection{{ID: 1, Name: "work", Tasks: []core.Task{}, Active: true}}, c)

	c = c.Use("home")
	assert.Equal(t, 1, c.ActiveIndex())
	assert.Equal(t, 2, c[1].ID)

	c = c.Use("work")
	assert.Equal(t, 0, c.ActiveIndex())
	assert.Len(t, c, 2)
}

func TestCollection_ContextIDsNotRenumbered(t *testing.T) {
	c := core.Collection{}.Use("a").Use("b")
	c, _ = c.RemoveContexts([]core.ContextRef{core.ByName("a")})
	c = c.Use("c")

	// "b" keeps id 2 and "c" is created as count+1 = 2 as well.
	assert.Equal(t, 2, c[0].ID)
	assert.Equal(t, 2, c[1].ID)
	assert.Equal(t, 0, c.IndexOfID(2), "first match wins for duplicated ids")
}

func TestCollection_RemoveContexts(t *testing.T) {
	tests := []struct {
		name       string
		active     string
		refs       []core.ContextRef
		wantNames  []string
		wantActive string
		unmatched  int
	}{
		{
			name:       "by name keeps active",
			active:     "b",
			refs:       []core.ContextRef{core.ByName("a")},
			wantNames:  []string{"b", "c"},
			wantActive: "b",
		},
		{
			name:       "active removed promotes first",
			active:     "b",
			refs:       []core.ContextRef{core.ByPosition(2)},
			wantNames:  []string{"a", "c"},
			wantActive: "a",
		},
		{
			name:       "mixed refs with a miss",
			active:     "a",
			refs:       []core.ContextRef{core.ByPosition(1), core.ByName("c"), core.ByName("zzz")},
			wantNames:  []string{"b"},
			wantActive: "b",
			unmatched:  1,
		},
		{
			name:      "remove everything",
			active:    "a",
			refs:      []core.ContextRef{core.ByPosition(1), core.ByPosition(2), core.ByPosition(3)},
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.Collection{}.Use("a").Use("b").Use("c").Use(tt.active)

			kept, unmatched := c.RemoveContexts(tt.refs)

			names := []string{}
			activeCount := 0
			for _, ctx := range kept {
				names = append(names, ctx.Name)
				if ctx.Active {
					activeCount++
					assert.Equal(t, tt.wantActive, ctx.Name)
				}
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Len(t, unmatched, tt.unmatched)
			if len(kept) > 0 {
				assert.Equal(t, 1, activeCount)
			}
		})
	}
}

func TestContext_Tasks(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 6, time.Local)
	ctx := core.NewContext("work", 0)

	for _, content := range []string{"a", "b", "c", "d"} {
		ctx.AddTask(content, now)
	}

	missing := ctx.RemoveTasks([]int{1, 3, 42})
	assert.Equal(t, []int{42}, missing)
	require.Len(t, ctx.Tasks, 2)
	assert.Equal(t, "b", ctx.Tasks[0].Content)
	assert.Equal(t, 1, ctx.Tasks[0].ID)
	assert.Equal(t, "d", ctx.Tasks[1].Content)
	assert.Equal(t, 2, ctx.Tasks[1].ID)

	later := now.Add(time.Hour)
	assert.Equal(t, 1, ctx.MarkDone([]int{2, 5}, later))
	assert.Equal(t, 0, ctx.MarkDone([]int{2}, later), "already done")
	assert.True(t, ctx.Tasks[1].Done)
	assert.True(t, ctx.Tasks[1].ModificationDate.Equal(later))
	assert.True(t, ctx.Tasks[1].CreationDate.Equal(now))

	assert.ErrorIs(t, ctx.EditTask(3, "x", later), core.ErrEntityNotFound)

	ctx.Clear()
	assert.Empty(t, ctx.Tasks)
	assert.Equal(t, "work", ctx.Name)
}

func TestTask_LegacyNameField(t *testing.T) {
	doc := `[{"id":1,"name":"work","active":true,"tasks":[
		{"id":1,"name":"old schema","done":true,"creation_date":"2023-05-01 10:00:00.5 +02:00","modification_date":"2023-05-01 10:00:00.5 +02:00"}
	]}]`

	var c core.Collection
	require.NoError(t, json.Unmarshal([]byte(doc), &c))
	require.Len(t, c[0].Tasks, 1)
	assert.Equal(t, "old schema", c[0].Tasks[0].Content)
	assert.True(t, c[0].Tasks[0].Done)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"content":"old schema"`)
	assert.NotContains(t, string(out), `"name":"old schema"`)
}

func TestContext_MarshalEmptyTasks(t *testing.T) {
	out, err := json.Marshal(core.Context{ID: 1, Name: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"x","tasks":[],"active":false}`, string(out))
}
