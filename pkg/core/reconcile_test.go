package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/valog/pkg/core"
)

const (
	t1 = "2024-01-01T00:00:00Z"
	t2 = "2024-02-01T00:00:00Z"
)

func issue(id, signal string) core.ActiveArticle {
	return core.ActiveArticle{ID: id, Type: core.SourceIssue, Signal: signal}
}

func local(id, signal string) core.ActiveArticle {
	return core.ActiveArticle{ID: id, Type: core.SourceLocalFile, Signal: signal}
}

func reasons(p core.Plan) map[string]core.Reason {
	out := make(map[string]core.Reason)
	for _, d := range p.Regenerate {
		out[d.ID] = d.Reason
	}
	return out
}

func TestReconcile(t *testing.T) {
	t.Run("New Article Regenerates Even With Artifact", func(t *testing.T) {
		plan := core.Reconcile(core.ReconcileInput{
			Active:    []core.ActiveArticle{issue("1", t1)},
			Cache:     core.Cache{},
			Artifacts: map[string]bool{"1": true},
		})

		assert.Equal(t, map[string]core.Reason{"1": core.ReasonNew}, reasons(plan))
		assert.Empty(t, plan.Delete)
	})

	t.Run("Modified Article", func(t *testing.T) {
		plan := core.Reconcile(core.ReconcileInput{
			Active:    []core.ActiveArticle{issue("1", t2)},
			Cache:     core.Cache{"1": {Type: core.SourceIssue, LastModified: t1}},
			Artifacts: map[string]bool{"1": true},
		})

		assert.Equal(t, map[string]core.Reason{"1": core.ReasonModified}, reasons(plan))
	})

	t.Run("Self Heals Missing Artifact", func(t *testing.T) {
		plan := core.Reconcile(core.ReconcileInput{
			Active:    []core.ActiveArticle{issue("1", t1)},
			Cache:     core.Cache{"1": {Type: core.SourceIssue, LastModified: t1}},
			Artifacts: map[string]bool{},
		})

		assert.Equal(t, map[string]core.Reason{"1": core.ReasonArtifactMissing}, reasons(plan))
	})

	t.Run("Type Mismatch Regenerates", func(t *testing.T) {
		plan := core.Reconcile(core.ReconcileInput{
			Active:    []core.ActiveArticle{local("hello", t1)},
			Cache:     core.Cache{"hello": {Type: core.SourceIssue, LastModified: t1}},
			Artifacts: map[string]bool{"hello": true},
		})

		assert.Equal(t, map[string]core.Reason{"hello": core.ReasonTypeChanged}, reasons(plan))
	})

	t.Run("Removal From Cache And Artifacts", func(t *testing.T) {
		plan := core.Reconcile(core.ReconcileInput{
			Active: []core.ActiveArticle{issue("1", t1)},
			Cache: core.Cache{
				"1": {Type: core.SourceIssue, LastModified: t1},
				"2": {Type: core.SourceIssue, LastModified: t1},
			},
			Artifacts: map[string]bool{"1": true, "2": true, "orphan": true},
		})

		assert.Equal(t, []string{"2", "orphan"}, plan.Delete)
		assert.Empty(t, plan.Regenerate)
		assert.Equal(t, []string{"1"}, plan.Unchanged)
	})

	t.Run("Idempotent Second Pass", func(t *testing.T) {
		active := []core.ActiveArticle{issue("1", t1), local("note", t2)}
		first := core.Reconcile(core.ReconcileInput{Active: active, Cache: core.Cache{}, Artifacts: map[string]bool{}})
		require.Len(t, first.Regenerate, 2)

		// Apply the plan the way the builder does.
		cache := core.Cache{}
		artifacts := map[string]bool{}
		for _, d := range first.Regenerate {
			cache[d.ID] = core.CacheEntry{Type: d.Type, LastModified: d.Signal}
			artifacts[d.ID] = true
		}

		second := core.Reconcile(core.ReconcileInput{Active: active, Cache: cache, Artifacts: artifacts})
		assert.True(t, second.IsNoop())
		assert.ElementsMatch(t, []string{"1", "note"}, second.Unchanged)
	})

	t.Run("Delete And Regenerate Are Disjoint", func(t *testing.T) {
		plan := core.Reconcile(core.ReconcileInput{
			Active:    []core.ActiveArticle{issue("1", t2), local("a", t1)},
			Cache:     core.Cache{"1": {Type: core.SourceIssue, LastModified: t1}, "gone": {Type: core.SourceLocalFile, LastModified: t1}},
			Artifacts: map[string]bool{"b": true},
		})

		regen := plan.RegenerateIDs()
		for _, id := range plan.Delete {
			assert.False(t, regen[id], "id %s is in both sets", id)
		}
		assert.Equal(t, []string{"b", "gone"}, plan.Delete)
	})

	t.Run("Timestamp Comparison Is Exact", func(t *testing.T) {
		plan := core.Reconcile(core.ReconcileInput{
			Active:    []core.ActiveArticle{issue("1", "2024-01-01T00:00:00+00:00")},
			Cache:     core.Cache{"1": {Type: core.SourceIssue, LastModified: t1}},
			Artifacts: map[string]bool{"1": true},
		})

		assert.Equal(t, map[string]core.Reason{"1": core.ReasonModified}, reasons(plan))
	})
}

func TestListContent_JSON(t *testing.T) {
	item := core.ListItem{ID: "0", Content: core.LinesContent("a", "b")}
	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"content":["a","b"]`)

	item.Content = core.TextContent("summary")
	data, err = json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"content":"summary"`)
}
