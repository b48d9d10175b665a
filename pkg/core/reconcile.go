package core

import "sort"

// Reason explains why an article is scheduled for regeneration.
type Reason string

const (
	ReasonNew             Reason = "new"
	ReasonTypeChanged     Reason = "type_changed"
	ReasonModified        Reason = "modified"
	ReasonArtifactMissing Reason = "artifact_missing"
)

// ActiveArticle is an article currently present in an enabled source,
// paired with its modification signal at reconciliation time.
type ActiveArticle struct {
	ID     string     `json:"id"`
	Type   SourceType `json:"type"`
	Signal string     `json:"signal"`
}

// ReconcileInput is everything the reconciliation looks at.
// Cache must be the snapshot taken before the run mutates anything.
type ReconcileInput struct {
	Active    []ActiveArticle
	Cache     Cache
	Artifacts map[string]bool
}

// Decision schedules one active article for regeneration.
type Decision struct {
	ActiveArticle
	Reason Reason `json:"reason"`
}

// Plan is the outcome of a reconciliation.
// Delete and Regenerate never share an identifier.
type Plan struct {
	Delete     []string   `json:"delete"`
	Regenerate []Decision `json:"regenerate"`
	Unchanged  []string   `json:"unchanged"`
}

// IsNoop reports whether the plan touches nothing.
func (p Plan) IsNoop() bool {
	return len(p.Delete) == 0 && len(p.Regenerate) == 0
}

// RegenerateIDs returns the identifiers scheduled for regeneration.
func (p Plan) RegenerateIDs() map[string]bool {
	ids := make(map[string]bool, len(p.Regenerate))
	for _, d := range p.Regenerate {
		ids[d.ID] = true
	}
	return ids
}

// Reconcile compares the active articles against the cache and the set of
// rendered artifacts.
//
// Everything the system has a record of (cache keys and artifacts) that is
// no longer active is deleted. An active article is regenerated when it has
// no cache entry, its entry belongs to another source type, the recorded
// signal differs from the current one (exact string comparison), or its
// artifact is gone. Reconcile is pure and never fails.
func Reconcile(in ReconcileInput) Plan {
	var plan Plan

	active := make(map[string]bool, len(in.Active))
	for _, a := range in.Active {
		active[a.ID] = true
	}

	known := make(map[string]bool, len(in.Cache)+len(in.Artifacts))
	for id := range in.Cache {
		known[id] = true
	}
	for id, ok := range in.Artifacts {
		if ok {
			known[id] = true
		}
	}
	for id := range known {
		if !active[id] {
			plan.Delete = append(plan.Delete, id)
		}
	}
	sort.Strings(plan.Delete)

	for _, a := range in.Active {
		reason, regenerate := decide(a, in.Cache, in.Artifacts)
		if !regenerate {
			plan.Unchanged = append(plan.Unchanged, a.ID)
			continue
		}
		plan.Regenerate = append(plan.Regenerate, Decision{ActiveArticle: a, Reason: reason})
	}

	return plan
}

func decide(a ActiveArticle, cache Cache, artifacts map[string]bool) (Reason, bool) {
	entry, ok := cache[a.ID]
	switch {
	case !ok:
		return ReasonNew, true
	case entry.Type != a.Type:
		return ReasonTypeChanged, true
	case entry.LastModified != a.Signal:
		return ReasonModified, true
	case !artifacts[a.ID]:
		return ReasonArtifactMissing, true
	}
	return "", false
}
