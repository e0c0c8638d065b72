package quiz

import "time"

// OptionsPerQuestion is the fixed number of answer choices on every question.
const OptionsPerQuestion = 4

type Status string

const (
	StatusPublished   Status = "published"
	StatusUnpublished Status = "unpublished"
)

func (s Status) Valid() bool {
	return s == StatusPublished || s == StatusUnpublished
}

// StatusFor maps the stored published flag to a form status.
func StatusFor(isPublished bool) Status {
	if isPublished {
		return StatusPublished
	}
	return StatusUnpublished
}

type Option struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	Content string                     `json:"content"`
	Options [OptionsPerQuestion]Option `json:"options"`
}

// CorrectCount reports how many options are marked correct.
func (q Question) CorrectCount() int {
	count := 0
	for _, option := range q.Options {
		if option.IsCorrect {
			count++
		}
	}
	return count
}

type Quiz struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	Status      Status     `json:"status"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (q Quiz) IsPublished() bool {
	return q.Status == StatusPublished
}

func (q Quiz) Summary() Summary {
	return Summary{
		ID:          q.ID,
		Title:       q.Title,
		IsPublished: q.IsPublished(),
	}
}

// Summary is what the editor needs to confirm a save.
type Summary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	IsPublished bool   `json:"is_published"`
}

type Category struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}
