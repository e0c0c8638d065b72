package quizform

import "quiz-maker/internal/quiz"

// Confirmation names the affordance the editor shows after a submission.
type Confirmation string

const (
	ConfirmNone       Confirmation = "none"
	ConfirmPublished  Confirmation = "published"
	ConfirmDraftSaved Confirmation = "draft_saved"
)

func ConfirmationFor(result quiz.Result) Confirmation {
	if !result.IsSuccess || result.Quiz == nil {
		return ConfirmNone
	}
	if result.Quiz.IsPublished {
		return ConfirmPublished
	}
	return ConfirmDraftSaved
}
