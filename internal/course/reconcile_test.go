package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduflow/eduflow-backend/internal/domain"
)

func TestReconcile_EmptyInputs(t *testing.T) {
	plan := Reconcile(nil, nil)
	assert.True(t, plan.Empty())
}

func TestReconcile_MixedBuffer(t *testing.T) {
	buffer := []domain.LessonDraft{
		{ID: "A", Title: "X", Kind: domain.LessonVideo, URL: "https://cdn/x.mp4"},
		{Title: "", Kind: domain.LessonVideo},
		{Title: "Y", Kind: domain.LessonText, Content: "body"},
	}
	plan := Reconcile(buffer, []string{"B"})

	assert.Equal(t, []string{"B"}, plan.Deletes)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "A", plan.Updates[0].ID)
	assert.Equal(t, 0, plan.Updates[0].Order)

	// the abandoned draft at position 1 is dropped but still owns its slot
	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "Y", plan.Creates[0].Title)
	assert.Equal(t, 2, plan.Creates[0].Order)
}

func TestReconcile_OrderFollowsBufferPosition(t *testing.T) {
	buffer := []domain.LessonDraft{
		{ID: "L3", Title: "third moved first"},
		{ID: "L1", Title: "first moved second"},
		{Title: "brand new", Kind: domain.LessonPDF, URL: "https://cdn/n.pdf"},
		{ID: "L2", Title: "second moved last"},
	}
	plan := Reconcile(buffer, nil)

	require.Len(t, plan.Updates, 3)
	require.Len(t, plan.Creates, 1)

	orders := make(map[string]int)
	for _, u := range plan.Updates {
		orders[u.ID] = u.Order
	}
	assert.Equal(t, 0, orders["L3"])
	assert.Equal(t, 1, orders["L1"])
	assert.Equal(t, 3, orders["L2"])
	assert.Equal(t, 2, plan.Creates[0].Order)

	// orders form a dense 0..n-1 permutation when nothing was dropped
	seen := make(map[int]bool)
	for _, u := range plan.Updates {
		seen[u.Order] = true
	}
	for _, c := range plan.Creates {
		seen[c.Order] = true
	}
	for i := 0; i < len(buffer); i++ {
		assert.True(t, seen[i], "order %d missing", i)
	}
}

func TestReconcile_DeduplicatesRemovedIDs(t *testing.T) {
	plan := Reconcile(nil, []string{"B", "B", "", "C", "B"})
	assert.Equal(t, []string{"B", "C"}, plan.Deletes)
}

func TestReconcile_RemovedIDStillInBuffer(t *testing.T) {
	// must not, by construction, but the reconciler does not trust that
	buffer := []domain.LessonDraft{
		{ID: "A", Title: "keep"},
		{ID: "B", Title: "ghost"},
	}
	plan := Reconcile(buffer, []string{"B"})

	assert.Equal(t, []string{"B"}, plan.Deletes)
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "A", plan.Updates[0].ID)
}

func TestReconcile_PersistedDraftWithEmptyTitleIsStillUpdated(t *testing.T) {
	buffer := []domain.LessonDraft{{ID: "A", Title: ""}}
	plan := Reconcile(buffer, nil)

	require.Len(t, plan.Updates, 1)
	assert.Empty(t, plan.Creates)
}

func TestValidateDrafts(t *testing.T) {
	err := ValidateDrafts([]domain.LessonDraft{
		{Title: "ok", Kind: domain.LessonAudio, URL: "https://cdn/a.mp3"},
		{Title: "bad", Kind: "hologram"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLessonKind)

	// abandoned drafts are not validated
	err = ValidateDrafts([]domain.LessonDraft{{Title: "", Kind: ""}})
	assert.NoError(t, err)
}
