package quiz

import (
	"context"
	"errors"
	"sync"
)

var ErrInvalidQuizID = errors.New("invalid quiz id")

const (
	MessagePublished  = "quiz published"
	MessageDraftSaved = "draft saved"
	MessageInvalid    = "quiz has validation errors"
)

// Result is the outcome of an update: either a summary of the saved quiz or
// the validation error tree, never both.
type Result struct {
	Message   string     `json:"message,omitempty"`
	IsSuccess bool       `json:"is_success"`
	Quiz      *Summary   `json:"quiz,omitempty"`
	Errors    *ErrorTree `json:"errors,omitempty"`
}

type Service struct {
	repo *Repository

	mu        sync.RWMutex
	quizCache map[int64]Quiz
	listCache []Quiz
	listValid bool
	// generation advances on every save; reads started under an older
	// generation do not populate the cache.
	generation uint64
}

func NewService(repo *Repository) *Service {
	return &Service{
		repo:      repo,
		quizCache: make(map[int64]Quiz),
	}
}

// Update validates the submission and, when it is valid, creates or replaces
// the quiz. Validation failures come back in the Result; data access failures
// come back as errors and leave nothing persisted.
func (s *Service) Update(ctx context.Context, sub Submission) (Result, error) {
	draft, err := Validate(sub)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return Result{Message: MessageInvalid, Errors: verr.Tree}, nil
		}
		return Result{}, err
	}

	if _, _, err := sub.ParsedID(); err != nil {
		return Result{}, ErrInvalidQuizID
	}

	saved, err := s.repo.Save(ctx, draft.Quiz())
	if err != nil {
		return Result{}, err
	}
	s.storeSaved(saved)

	summary := saved.Summary()
	message := MessageDraftSaved
	if summary.IsPublished {
		message = MessagePublished
	}
	return Result{
		Message:   message,
		IsSuccess: true,
		Quiz:      &summary,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Quiz, bool, error) {
	if item, ok := s.getCachedQuiz(id); ok {
		return item, true, nil
	}

	gen := s.cacheGeneration()
	item, found, err := s.repo.FindByID(ctx, id)
	if err != nil || !found {
		return Quiz{}, found, err
	}
	s.setCachedQuiz(item, gen)
	return item, true, nil
}

func (s *Service) List(ctx context.Context) ([]Quiz, error) {
	if items, ok := s.getCachedList(); ok {
		return items, nil
	}

	gen := s.cacheGeneration()
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.setCachedList(items, gen)
	return items, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.Categories(ctx)
}
