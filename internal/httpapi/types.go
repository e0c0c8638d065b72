package httpapi

import (
	"time"

	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quizform"
)

type quizSummaryResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	IsPublished   bool      `json:"is_published"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type quizzesResponse struct {
	Quizzes []quizSummaryResponse `json:"quizzes"`
}

type categoriesResponse struct {
	Categories []quiz.Category `json:"categories"`
}

type createSessionRequest struct {
	QuizID      *int64 `json:"quiz_id,omitempty"`
	TriviaCount int    `json:"trivia_count,omitempty"`
}

type sessionResponse struct {
	SessionID string         `json:"session_id"`
	State     quizform.State `json:"state"`
}

type fieldsRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	CategoryID    *int64  `json:"category_id,omitempty"`
	ClearCategory bool    `json:"clear_category,omitempty"`
	Status        *string `json:"status,omitempty"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type submitResponse struct {
	quiz.Result
	Confirmation quizform.Confirmation `json:"confirmation"`
	Messages     []string              `json:"messages,omitempty"`
	State        quizform.State        `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}
