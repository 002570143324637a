package course

import (
	"github.com/eduflow/eduflow-backend/internal/domain"
)

// Reconcile translates an instructor's edit buffer plus the side list of
// removed lesson IDs into delete/update/create batches. It is a pure function:
// no I/O happens here, the repository applies the plan afterwards.
//
// Rules:
//   - a draft carrying a persisted ID becomes an update at its buffer position
//   - a draft without an ID becomes a create only when its title is non-empty;
//     empty-titled new drafts are abandoned "add lesson" clicks and are dropped
//   - every removed ID becomes a delete, de-duplicated; a removed ID still
//     sitting in the buffer is deleted rather than updated
//
// Order values are raw buffer indices, so a dropped draft leaves its slot
// unused instead of shifting later lessons.
func Reconcile(buffer []domain.LessonDraft, removedIDs []string) domain.LessonPlan {
	removed := make(map[string]struct{}, len(removedIDs))
	var plan domain.LessonPlan

	for _, id := range removedIDs {
		if id == "" {
			continue
		}
		if _, dup := removed[id]; dup {
			continue
		}
		removed[id] = struct{}{}
		plan.Deletes = append(plan.Deletes, id)
	}

	for i, draft := range buffer {
		if draft.ID != "" {
			if _, gone := removed[draft.ID]; gone {
				continue
			}
			plan.Updates = append(plan.Updates, domain.LessonWrite{LessonDraft: draft, Order: i})
			continue
		}
		if draft.Title == "" {
			continue
		}
		plan.Creates = append(plan.Creates, domain.LessonWrite{LessonDraft: draft, Order: i})
	}
	return plan
}

// ValidateDrafts rejects buffers containing unknown lesson kinds before any
// plan is applied. Drafts that the reconciler would drop are not validated.
func ValidateDrafts(buffer []domain.LessonDraft) error {
	for _, draft := range buffer {
		if draft.ID == "" && draft.Title == "" {
			continue
		}
		if !draft.Kind.Valid() {
			return domain.ErrInvalidLessonKind
		}
	}
	return nil
}
