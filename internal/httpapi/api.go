package httpapi

import (
	"context"

	"quiz-maker/internal/opentdb"
	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quizform"
)

// TriviaSource supplies multiple-choice questions for prefilled drafts.
type TriviaSource interface {
	FetchQuestions(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)
}

type API struct {
	service  *quiz.Service
	sessions *quizform.Sessions
	trivia   TriviaSource
}

func NewAPI(service *quiz.Service, sessions *quizform.Sessions, trivia TriviaSource) *API {
	if sessions == nil {
		sessions = quizform.NewSessions(quizform.DefaultSessionTTL)
	}
	return &API{
		service:  service,
		sessions: sessions,
		trivia:   trivia,
	}
}
