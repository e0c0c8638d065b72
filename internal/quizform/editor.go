// Package quizform holds the editable in-memory quiz behind the editor UI.
//
// An Editor belongs to one editing session and is not safe for concurrent
// use. Every structural edit replaces the question slice instead of writing
// through it, so a State returned by Snapshot never changes afterwards.
package quizform

import (
	"slices"
	"strconv"

	"quiz-maker/internal/quiz"
)

type Editor struct {
	id          *int64
	title       string
	description string
	categoryID  *int64
	status      quiz.Status
	questions   []quiz.Question
}

// State is a read-only view of the editor at one point in time.
type State struct {
	ID          *int64          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	Status      quiz.Status     `json:"status"`
	Questions   []quiz.Question `json:"questions"`
}

func (s State) ValidQuestion(q int) bool {
	return q >= 0 && q < len(s.Questions)
}

func (s State) ValidOption(q, o int) bool {
	return s.ValidQuestion(q) && o >= 0 && o < quiz.OptionsPerQuestion
}

// New starts an editor. With a persisted quiz it edits that quiz; with nil it
// starts a new quiz holding one blank question.
func New(existing *quiz.Quiz) *Editor {
	if existing == nil {
		return &Editor{
			status:    quiz.StatusUnpublished,
			questions: []quiz.Question{{}},
		}
	}

	e := &Editor{
		title:       existing.Title,
		description: existing.Description,
		categoryID:  copyID(existing.CategoryID),
		status:      quiz.StatusFor(existing.IsPublished()),
		questions:   slices.Clone(existing.Questions),
	}
	if existing.ID > 0 {
		id := existing.ID
		e.id = &id
	}
	if len(e.questions) == 0 {
		e.questions = []quiz.Question{{}}
	}
	return e
}

// NewWithQuestions starts a new quiz prefilled with the given questions.
func NewWithQuestions(questions []quiz.Question) *Editor {
	e := New(nil)
	if len(questions) > 0 {
		e.questions = slices.Clone(questions)
	}
	return e
}

func (e *Editor) SetTitle(title string) {
	e.title = title
}

func (e *Editor) SetDescription(description string) {
	e.description = description
}

func (e *Editor) SetCategory(categoryID *int64) {
	e.categoryID = copyID(categoryID)
}

func (e *Editor) SetStatus(status quiz.Status) {
	e.status = status
}

func (e *Editor) EditQuestionContent(q int, text string) {
	next := slices.Clone(e.questions)
	next[q].Content = text
	e.questions = next
}

// EditOptionContent replaces the text of one option and keeps its
// correctness flag.
func (e *Editor) EditOptionContent(q, o int, text string) {
	next := slices.Clone(e.questions)
	next[q].Options[o].Content = text
	e.questions = next
}

// SetCorrectOption marks option o as the answer to question q and clears
// every other option of that question.
func (e *Editor) SetCorrectOption(q, o int) {
	next := slices.Clone(e.questions)
	_ = next[q].Options[o]
	for idx := range next[q].Options {
		next[q].Options[idx].IsCorrect = idx == o
	}
	e.questions = next
}

func (e *Editor) AddQuestion() {
	next := make([]quiz.Question, len(e.questions), len(e.questions)+1)
	copy(next, e.questions)
	e.questions = append(next, quiz.Question{})
}

// RemoveQuestion drops question q unless it is the last one left.
func (e *Editor) RemoveQuestion(q int) {
	if len(e.questions) <= 1 {
		return
	}
	_ = e.questions[q]
	e.questions = slices.Delete(slices.Clone(e.questions), q, q+1)
}

// MarkSaved records the identifier the quiz was persisted under, so the
// next submission updates it instead of creating another quiz.
func (e *Editor) MarkSaved(summary quiz.Summary) {
	id := summary.ID
	e.id = &id
}

func (e *Editor) Snapshot() State {
	return State{
		ID:          copyID(e.id),
		Title:       e.title,
		Description: e.description,
		CategoryID:  copyID(e.categoryID),
		Status:      e.status,
		Questions:   slices.Clone(e.questions),
	}
}

// Submission is the editor's content as the update action receives it.
func (e *Editor) Submission() quiz.Submission {
	sub := quiz.Submission{
		Title:       e.title,
		Description: e.description,
		Status:      string(e.status),
		Questions:   make([]quiz.SubmittedQuestion, len(e.questions)),
	}
	if e.id != nil {
		sub.ID = strconv.FormatInt(*e.id, 10)
	}
	if e.categoryID != nil {
		sub.CategoryID = strconv.FormatInt(*e.categoryID, 10)
	}
	for qIdx, question := range e.questions {
		submitted := quiz.SubmittedQuestion{Content: question.Content}
		for oIdx, option := range question.Options {
			submitted.Options[oIdx] = quiz.SubmittedOption{
				Content:   option.Content,
				IsCorrect: option.IsCorrect,
			}
		}
		sub.Questions[qIdx] = submitted
	}
	return sub
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
