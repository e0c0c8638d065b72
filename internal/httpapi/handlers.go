package httpapi

import (
	"errors"
	"mime"
	"net/http"

	"quiz-maker/internal/quiz"
)

func (a *API) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	limit, err := parseIntParam(r, "limit", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	publishedOnly := parseBoolParam(r, "published")

	items, err := a.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := quizzesResponse{
		Quizzes: make([]quizSummaryResponse, 0, len(items)),
	}
	for _, item := range items {
		if publishedOnly && !item.IsPublished() {
			continue
		}
		if limit > 0 && len(response.Quizzes) >= limit {
			break
		}
		response.Quizzes = append(response.Quizzes, quizSummaryResponse{
			ID:            item.ID,
			Title:         item.Title,
			IsPublished:   item.IsPublished(),
			CategoryID:    item.CategoryID,
			QuestionCount: len(item.Questions),
			CreatedAt:     item.CreatedAt,
			UpdatedAt:     item.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	id, err := parseQuizID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	item, found, err := a.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		writeServiceError(w, quiz.ErrQuizNotFound)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	categories, err := a.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories})
}

// HandleUpdateQuiz is the update action. It takes the flat form encoding
// browsers send or a JSON submission.
func (a *API) HandleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	sub, err := decodeSubmission(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := a.service.Update(r.Context(), sub)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, resultStatus(result), result)
}

func decodeSubmission(w http.ResponseWriter, r *http.Request) (quiz.Submission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var sub quiz.Submission
		if err := decodeJSON(w, r, &sub); err != nil {
			return quiz.Submission{}, errors.New("invalid JSON body")
		}
		return sub, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return quiz.Submission{}, errors.New("invalid form body")
		}
		return quiz.ParseForm(r.PostForm), nil
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return quiz.Submission{}, errors.New("invalid form body")
		}
		return quiz.ParseForm(r.PostForm), nil
	}
}

func resultStatus(result quiz.Result) int {
	if result.IsSuccess {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}
