package domain

// LessonKind closed set of lesson content kinds
type LessonKind string

const (
	LessonVideo LessonKind = "video"
	LessonText  LessonKind = "text"
	LessonPDF   LessonKind = "pdf"
	LessonAudio LessonKind = "audio"
)

// Valid reports whether the kind is one of the known variants
func (k LessonKind) Valid() bool {
	switch k {
	case LessonVideo, LessonText, LessonPDF, LessonAudio:
		return true
	}
	return false
}

// Inline reports whether the kind carries its payload inline (text content)
// rather than as an external URL
func (k LessonKind) Inline() bool {
	return k == LessonText
}

// LessonModel one persisted lesson row. Content holds the payload for text
// lessons, URL for every other kind; the unused field stays empty.
type LessonModel struct {
	ID       string     `json:"id"`
	CourseID string     `json:"course_id"`
	Title    string     `json:"title"`
	Kind     LessonKind `json:"kind"`
	Content  string     `json:"content,omitempty"`
	URL      string     `json:"url,omitempty"`
	Duration string     `json:"duration,omitempty"`
	Order    int        `json:"order"`
}

// LessonDraft one entry of an instructor's edit buffer. ID is empty for rows
// that have never been persisted.
type LessonDraft struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Kind     LessonKind `json:"kind"`
	Content  string     `json:"content"`
	URL      string     `json:"url"`
	Duration string     `json:"duration"`
}

// LessonWrite a draft bound to its final position within the course
type LessonWrite struct {
	LessonDraft
	Order int
}

// LessonPlan operation batches computed by the reconciler. Apply order is
// deletes, then updates, then creates, so a deleted lesson's order slot can be
// reused without a transient collision.
type LessonPlan struct {
	Deletes []string
	Updates []LessonWrite
	Creates []LessonWrite
}

// Empty reports whether the plan contains no operations
func (p *LessonPlan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Updates) == 0 && len(p.Creates) == 0
}
