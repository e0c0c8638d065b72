package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quizform"
)

func (a *API) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	var request createSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &request); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
	}

	var editor *quizform.Editor
	switch {
	case request.QuizID != nil:
		item, found, err := a.service.Get(r.Context(), *request.QuizID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !found {
			writeServiceError(w, quiz.ErrQuizNotFound)
			return
		}
		editor = quizform.New(&item)
	case request.TriviaCount > 0:
		if a.trivia == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "trivia source unavailable"})
			return
		}
		raw, err := a.trivia.FetchQuestions(r.Context(), request.TriviaCount)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to fetch questions"})
			return
		}
		editor = quizform.NewWithQuestions(quiz.BuildQuestions(raw))
	default:
		editor = quizform.New(nil)
	}

	id, state := a.sessions.Create(editor)
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, State: state})
}

func (a *API) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	state, err := a.sessions.Snapshot(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func (a *API) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleSetFields(w http.ResponseWriter, r *http.Request) {
	var request fieldsRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	a.editSession(w, r, func(e *quizform.Editor) error {
		if request.Title != nil {
			e.SetTitle(*request.Title)
		}
		if request.Description != nil {
			e.SetDescription(*request.Description)
		}
		if request.ClearCategory {
			e.SetCategory(nil)
		} else if request.CategoryID != nil {
			e.SetCategory(request.CategoryID)
		}
		if request.Status != nil {
			e.SetStatus(quiz.Status(*request.Status))
		}
		return nil
	})
}

func (a *API) HandleAddQuestion(w http.ResponseWriter, r *http.Request) {
	a.editSession(w, r, func(e *quizform.Editor) error {
		e.AddQuestion()
		return nil
	})
}

func (a *API) HandleRemoveQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := parseIndexParam(r, "q")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	a.editSession(w, r, func(e *quizform.Editor) error {
		if !e.Snapshot().ValidQuestion(q) {
			return quizform.ErrIndexOutOfRange
		}
		e.RemoveQuestion(q)
		return nil
	})
}

func (a *API) HandleEditQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := parseIndexParam(r, "q")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var request contentRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	a.editSession(w, r, func(e *quizform.Editor) error {
		if !e.Snapshot().ValidQuestion(q) {
			return quizform.ErrIndexOutOfRange
		}
		e.EditQuestionContent(q, request.Content)
		return nil
	})
}

func (a *API) HandleEditOption(w http.ResponseWriter, r *http.Request) {
	q, o, err := parseOptionParams(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var request contentRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	a.editSession(w, r, func(e *quizform.Editor) error {
		if !e.Snapshot().ValidOption(q, o) {
			return quizform.ErrIndexOutOfRange
		}
		e.EditOptionContent(q, o, request.Content)
		return nil
	})
}

func (a *API) HandleSetCorrectOption(w http.ResponseWriter, r *http.Request) {
	q, o, err := parseOptionParams(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	a.editSession(w, r, func(e *quizform.Editor) error {
		if !e.Snapshot().ValidOption(q, o) {
			return quizform.ErrIndexOutOfRange
		}
		e.SetCorrectOption(q, o)
		return nil
	})
}

// HandleSubmitSession runs the session's editor through the update action.
// The session refuses a second submit until this one finishes.
func (a *API) HandleSubmitSession(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	id := chi.URLParam(r, "sessionID")
	sub, err := a.sessions.BeginSubmit(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Release the session even if the update panics.
	ended := false
	defer func() {
		if !ended {
			a.sessions.EndSubmit(id, quiz.Result{})
		}
	}()

	result, err := a.service.Update(r.Context(), sub)
	ended = true
	confirmation, state, endErr := a.sessions.EndSubmit(id, result)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if endErr != nil {
		writeServiceError(w, endErr)
		return
	}

	writeJSON(w, resultStatus(result), submitResponse{
		Result:       result,
		Confirmation: confirmation,
		Messages:     result.Errors.Messages(),
		State:        state,
	})
}

func (a *API) editSession(w http.ResponseWriter, r *http.Request, fn func(*quizform.Editor) error) {
	id := chi.URLParam(r, "sessionID")
	state, err := a.sessions.Edit(id, fn)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func parseOptionParams(r *http.Request) (int, int, error) {
	q, err := parseIndexParam(r, "q")
	if err != nil {
		return 0, 0, err
	}
	o, err := parseIndexParam(r, "o")
	if err != nil {
		return 0, 0, err
	}
	return q, o, nil
}
