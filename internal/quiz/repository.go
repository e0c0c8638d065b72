package quiz

import (
	"context"
	"errors"
)

var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrDataAccess   = errors.New("data access failed")
)

// Store is the backing store behind Repository. Implementations report a
// missing row with ErrQuizNotFound and return every other failure as is.
type Store interface {
	GetQuiz(ctx context.Context, id int64) (Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	CreateQuiz(ctx context.Context, quiz Quiz) (Quiz, error)
	UpdateQuiz(ctx context.Context, quiz Quiz) (Quiz, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

// DataAccessError wraps a backend failure without interpreting it.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return e.Op + ": " + ErrDataAccess.Error()
}

func (e *DataAccessError) Unwrap() []error {
	return []error{ErrDataAccess, e.Err}
}

// Repository is the data-access facade used by the service. A missing quiz is
// a normal outcome (found == false); anything else is a *DataAccessError.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) FindByID(ctx context.Context, id int64) (Quiz, bool, error) {
	item, err := r.store.GetQuiz(ctx, id)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			return Quiz{}, false, nil
		}
		return Quiz{}, false, &DataAccessError{Op: "find quiz", Err: err}
	}
	return item, true, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]Quiz, error) {
	items, err := r.store.ListQuizzes(ctx)
	if err != nil {
		return nil, &DataAccessError{Op: "list quizzes", Err: err}
	}
	return items, nil
}

// Save creates the quiz when it has no ID and replaces it otherwise. Updating
// an ID the store does not know returns ErrQuizNotFound.
func (r *Repository) Save(ctx context.Context, item Quiz) (Quiz, error) {
	var (
		saved Quiz
		err   error
	)
	if item.ID == 0 {
		saved, err = r.store.CreateQuiz(ctx, item)
	} else {
		saved, err = r.store.UpdateQuiz(ctx, item)
	}
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, &DataAccessError{Op: "save quiz", Err: err}
	}
	return saved, nil
}

func (r *Repository) Categories(ctx context.Context) ([]Category, error) {
	items, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, &DataAccessError{Op: "list categories", Err: err}
	}
	return items, nil
}
