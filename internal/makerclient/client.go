package makerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quizform"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type QuizSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	IsPublished   bool      `json:"is_published"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type quizzesResponse struct {
	Quizzes []QuizSummary `json:"quizzes"`
}

type categoriesResponse struct {
	Categories []quiz.Category `json:"categories"`
}

type createSessionRequest struct {
	TriviaCount int `json:"trivia_count"`
}

type sessionResponse struct {
	SessionID string         `json:"session_id"`
	State     quizform.State `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) ListQuizzes(ctx context.Context, limit int) ([]QuizSummary, error) {
	path := "/quizzes"
	if limit > 0 {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(limit))
		path += "?" + query.Encode()
	}

	var payload quizzesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Quizzes, nil
}

func (c *HTTPClient) GetQuiz(ctx context.Context, id int64) (quiz.Quiz, error) {
	var item quiz.Quiz
	if err := c.doJSON(ctx, http.MethodGet, "/quizzes/"+strconv.FormatInt(id, 10), nil, &item); err != nil {
		return quiz.Quiz{}, err
	}
	return item, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]quiz.Category, error) {
	var payload categoriesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

// TriviaDraft asks the service for a draft prefilled with trivia questions.
// The server-side session is only used to build the draft and is dropped
// afterwards.
func (c *HTTPClient) TriviaDraft(ctx context.Context, count int) (quizform.State, error) {
	var payload sessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/sessions", createSessionRequest{TriviaCount: count}, &payload); err != nil {
		return quizform.State{}, err
	}
	_ = c.doJSON(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(payload.SessionID), nil, nil)
	return payload.State, nil
}

// UpdateQuiz posts the flat form to the update action. A rejected
// submission is a normal Result carrying the error tree.
func (c *HTTPClient) UpdateQuiz(ctx context.Context, values url.Values) (quiz.Result, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/quizzes/update", strings.NewReader(values.Encode()))
	if err != nil {
		return quiz.Result{}, err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result quiz.Result
	if err := c.send(request, &result, http.StatusUnprocessableEntity); err != nil {
		return quiz.Result{}, err
	}
	return result, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	return c.send(request, responseBody)
}

// send executes the request and decodes a 2xx body, or a body with one of
// the extra accepted statuses, into responseBody.
func (c *HTTPClient) send(request *http.Request, responseBody any, acceptStatus ...int) error {
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	accepted := response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices
	for _, status := range acceptStatus {
		if response.StatusCode == status {
			accepted = true
		}
	}

	if !accepted {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
