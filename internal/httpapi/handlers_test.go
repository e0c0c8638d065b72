package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quiz-maker/internal/opentdb"
	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quizform"
)

type fakeStore struct {
	quizzes map[int64]quiz.Quiz
	nextID  int64
	err     error
	saves   int

	panicOnSave bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{quizzes: make(map[int64]quiz.Quiz), nextID: 1}
}

func (f *fakeStore) GetQuiz(_ context.Context, id int64) (quiz.Quiz, error) {
	if f.err != nil {
		return quiz.Quiz{}, f.err
	}
	item, ok := f.quizzes[id]
	if !ok {
		return quiz.Quiz{}, quiz.ErrQuizNotFound
	}
	return item, nil
}

func (f *fakeStore) ListQuizzes(_ context.Context) ([]quiz.Quiz, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]quiz.Quiz, 0, len(f.quizzes))
	for id := f.nextID - 1; id > 0; id-- {
		if item, ok := f.quizzes[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateQuiz(_ context.Context, item quiz.Quiz) (quiz.Quiz, error) {
	f.saves++
	if f.panicOnSave {
		panic("store exploded")
	}
	if f.err != nil {
		return quiz.Quiz{}, f.err
	}
	item.ID = f.nextID
	f.nextID++
	f.quizzes[item.ID] = item
	return item, nil
}

func (f *fakeStore) UpdateQuiz(_ context.Context, item quiz.Quiz) (quiz.Quiz, error) {
	f.saves++
	if f.panicOnSave {
		panic("store exploded")
	}
	if f.err != nil {
		return quiz.Quiz{}, f.err
	}
	if _, ok := f.quizzes[item.ID]; !ok {
		return quiz.Quiz{}, quiz.ErrQuizNotFound
	}
	f.quizzes[item.ID] = item
	return item, nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]quiz.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []quiz.Category{{ID: 1, Label: "General"}}, nil
}

type fakeTrivia struct {
	questions []opentdb.RawQuestion
	err       error
	amount    int
}

func (f *fakeTrivia) FetchQuestions(_ context.Context, amount int) ([]opentdb.RawQuestion, error) {
	f.amount = amount
	return f.questions, f.err
}

type testServer struct {
	store    *fakeStore
	sessions *quizform.Sessions
	trivia   *fakeTrivia
	handler  http.Handler
}

func newTestServer() *testServer {
	store := newFakeStore()
	sessions := quizform.NewSessions(quizform.DefaultSessionTTL)
	trivia := &fakeTrivia{}
	api := NewAPI(quiz.NewService(quiz.NewRepository(store)), sessions, trivia)
	return &testServer{
		store:    store,
		sessions: sessions,
		trivia:   trivia,
		handler:  NewRouter(api, RouterOptions{CORSOrigins: []string{"http://localhost:3000"}}),
	}
}

func (s *testServer) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(method, target string, payload any) *httptest.ResponseRecorder {
	body := ""
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = string(raw)
	}
	return s.do(method, target, "application/json", body)
}

func validForm() url.Values {
	values := url.Values{}
	values.Set(quiz.FieldTitle, "T")
	values.Set(quiz.FieldDescription, "D")
	values.Set(quiz.FieldStatus, "published")
	values.Set(quiz.QuestionContentKey(0), "Q1")
	for o := 0; o < quiz.OptionsPerQuestion; o++ {
		values.Set(quiz.OptionContentKey(0, o), "option")
	}
	values.Set(quiz.OptionCorrectKey(0, 2), "on")
	return values
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var payload T
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return payload
}

func TestParseIntParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	if got, err := parseIntParam(req, "limit", 10); err != nil || got != 10 {
		t.Fatalf("default parseIntParam = (%d, %v), want (10, nil)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/quizzes?limit=25", nil)
	if got, err := parseIntParam(req, "limit", 10); err != nil || got != 25 {
		t.Fatalf("valid parseIntParam = (%d, %v), want (25, nil)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/quizzes?limit=0", nil)
	if _, err := parseIntParam(req, "limit", 10); err == nil {
		t.Fatalf("expected error for non-positive limit")
	}
}

func TestParseBoolParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/quizzes?published=true", nil)
	if !parseBoolParam(req, "published") {
		t.Fatalf("expected true for published=true")
	}

	req = httptest.NewRequest(http.MethodGet, "/quizzes?published=yes", nil)
	if !parseBoolParam(req, "published") {
		t.Fatalf("expected true for published=yes")
	}

	req = httptest.NewRequest(http.MethodGet, "/quizzes?published=0", nil)
	if parseBoolParam(req, "published") {
		t.Fatalf("expected false for published=0")
	}
}

func TestWriteMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	writeMethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/quizzes/update", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	payload := decodeBody[errorResponse](t, rec)
	if payload.Error != "method not allowed" {
		t.Fatalf("error payload = %q", payload.Error)
	}
}

func TestHandleListQuizzesServiceUnavailable(t *testing.T) {
	api := NewAPI(nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	rec := httptest.NewRecorder()

	api.HandleListQuizzes(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "quiz service unavailable") {
		t.Fatalf("unexpected response body: %s", rec.Body.String())
	}
}

func TestUpdateQuizFormCreatesPublishedQuiz(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodPost, "/quizzes/update", "application/x-www-form-urlencoded", validForm().Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	result := decodeBody[quiz.Result](t, rec)
	if !result.IsSuccess || result.Quiz == nil || result.Quiz.ID != 1 || !result.Quiz.IsPublished {
		t.Fatalf("unexpected result: %+v", result)
	}
	saved := srv.store.quizzes[1]
	if saved.Title != "T" || len(saved.Questions) != 1 || !saved.Questions[0].Options[2].IsCorrect {
		t.Fatalf("unexpected stored quiz: %+v", saved)
	}
}

func TestUpdateQuizValidationFailureReturns422(t *testing.T) {
	srv := newTestServer()
	form := validForm()
	form.Set(quiz.FieldTitle, "")
	form.Del(quiz.OptionCorrectKey(0, 2))

	rec := srv.do(http.MethodPost, "/quizzes/update", "application/x-www-form-urlencoded", form.Encode())
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	result := decodeBody[quiz.Result](t, rec)
	if result.IsSuccess || result.Quiz != nil || result.Errors == nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Errors.Title) != 1 || result.Errors.Title[0].Code != quiz.CodeEmptyField {
		t.Fatalf("expected title error, got %+v", result.Errors.Title)
	}
	question := result.Errors.QuestionItems[0]
	if question == nil || len(question.Options) != 1 || question.Options[0].Code != quiz.CodeInvalidCorrectCount {
		t.Fatalf("expected options error, got %+v", question)
	}
	if srv.store.saves != 0 {
		t.Fatalf("expected no persistence, got %d saves", srv.store.saves)
	}
}

func TestUpdateQuizJSONUpdatesExisting(t *testing.T) {
	srv := newTestServer()
	srv.do(http.MethodPost, "/quizzes/update", "application/x-www-form-urlencoded", validForm().Encode())

	sub := quiz.ParseForm(validForm())
	sub.ID = "1"
	sub.Status = "unpublished"
	sub.Title = "Renamed"

	rec := srv.doJSON(http.MethodPost, "/quizzes/update", sub)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[quiz.Result](t, rec)
	if result.Quiz.ID != 1 || result.Quiz.IsPublished || result.Message != quiz.MessageDraftSaved {
		t.Fatalf("unexpected result: %+v", result)
	}
	if srv.store.quizzes[1].Title != "Renamed" {
		t.Fatalf("store not updated")
	}
}

func TestUpdateQuizErrorMapping(t *testing.T) {
	missing := validForm()
	missing.Set(quiz.FieldID, "42")
	malformed := validForm()
	malformed.Set(quiz.FieldID, "forty-two")

	cases := []struct {
		name     string
		form     url.Values
		storeErr error
		want     int
		wantBody string
	}{
		{"missing id", missing, nil, http.StatusNotFound, "quiz not found"},
		{"malformed id", malformed, nil, http.StatusBadRequest, "id must be a positive integer"},
		{"store failure", validForm(), errors.New("disk I/O error"), http.StatusInternalServerError, "request failed"},
	}
	for _, tc := range cases {
		srv := newTestServer()
		srv.store.err = tc.storeErr

		rec := srv.do(http.MethodPost, "/quizzes/update", "application/x-www-form-urlencoded", tc.form.Encode())
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
		if !strings.Contains(rec.Body.String(), tc.wantBody) {
			t.Fatalf("%s: unexpected body %s", tc.name, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "disk") {
			t.Fatalf("%s: backend detail leaked: %s", tc.name, rec.Body.String())
		}
	}
}

func TestUpdateQuizInvalidJSON(t *testing.T) {
	srv := newTestServer()
	rec := srv.do(http.MethodPost, "/quizzes/update", "application/json", "{")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListAndGetQuizzes(t *testing.T) {
	srv := newTestServer()
	srv.do(http.MethodPost, "/quizzes/update", "application/x-www-form-urlencoded", validForm().Encode())
	draft := validForm()
	draft.Set(quiz.FieldTitle, "Draft")
	draft.Set(quiz.FieldStatus, "unpublished")
	srv.do(http.MethodPost, "/quizzes/update", "application/x-www-form-urlencoded", draft.Encode())

	rec := srv.do(http.MethodGet, "/quizzes", "", "")
	list := decodeBody[quizzesResponse](t, rec)
	if len(list.Quizzes) != 2 || list.Quizzes[0].Title != "Draft" || list.Quizzes[0].QuestionCount != 1 {
		t.Fatalf("unexpected listing: %+v", list)
	}

	rec = srv.do(http.MethodGet, "/quizzes?published=true", "", "")
	list = decodeBody[quizzesResponse](t, rec)
	if len(list.Quizzes) != 1 || list.Quizzes[0].ID != 1 {
		t.Fatalf("unexpected published listing: %+v", list)
	}

	rec = srv.do(http.MethodGet, "/quizzes/2", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	item := decodeBody[quiz.Quiz](t, rec)
	if item.Title != "Draft" || item.Status != quiz.StatusUnpublished {
		t.Fatalf("unexpected quiz: %+v", item)
	}

	if rec := srv.do(http.MethodGet, "/quizzes/9", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing quiz status = %d", rec.Code)
	}
	if rec := srv.do(http.MethodGet, "/quizzes/abc", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", rec.Code)
	}
}

func TestCategoriesAndHealth(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodGet, "/categories", "", "")
	categories := decodeBody[categoriesResponse](t, rec)
	if len(categories.Categories) != 1 || categories.Categories[0].Label != "General" {
		t.Fatalf("unexpected categories: %+v", categories)
	}

	if rec := srv.do(http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestRouterMethodNotAllowedAndCORS(t *testing.T) {
	srv := newTestServer()

	rec := srv.do(http.MethodPatch, "/quizzes/update", "", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestSessionEditAndSubmitFlow(t *testing.T) {
	srv := newTestServer()

	rec := srv.doJSON(http.MethodPost, "/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[sessionResponse](t, rec)
	base := "/sessions/" + created.SessionID

	title, description, status := "T", "D", "published"
	steps := []struct {
		method  string
		path    string
		payload any
	}{
		{http.MethodPut, "/fields", fieldsRequest{Title: &title, Description: &description, Status: &status}},
		{http.MethodPut, "/questions/0", contentRequest{Content: "Q1"}},
		{http.MethodPut, "/questions/0/options/0", contentRequest{Content: "a"}},
		{http.MethodPut, "/questions/0/options/1", contentRequest{Content: "b"}},
		{http.MethodPut, "/questions/0/options/2", contentRequest{Content: "c"}},
		{http.MethodPut, "/questions/0/options/3", contentRequest{Content: "d"}},
		{http.MethodPut, "/questions/0/options/3/correct", nil},
	}
	for _, step := range steps {
		rec := srv.doJSON(step.method, base+step.path, step.payload)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s %s: status = %d, body %s", step.method, step.path, rec.Code, rec.Body.String())
		}
	}

	rec = srv.doJSON(http.MethodPost, base+"/submit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}
	submitted := decodeBody[submitResponse](t, rec)
	if submitted.Confirmation != quizform.ConfirmPublished || submitted.Quiz == nil || submitted.Quiz.ID != 1 {
		t.Fatalf("unexpected submit response: %+v", submitted)
	}
	if submitted.State.ID == nil || *submitted.State.ID != 1 {
		t.Fatalf("session not bound to saved quiz: %+v", submitted.State)
	}

	srv.doJSON(http.MethodPut, base+"/fields", fieldsRequest{Status: strPtr("unpublished")})
	rec = srv.doJSON(http.MethodPost, base+"/submit", nil)
	resubmitted := decodeBody[submitResponse](t, rec)
	if resubmitted.Confirmation != quizform.ConfirmDraftSaved || resubmitted.Quiz.ID != 1 {
		t.Fatalf("unexpected resubmit response: %+v", resubmitted)
	}
	if len(srv.store.quizzes) != 1 {
		t.Fatalf("expected update in place, got %d quizzes", len(srv.store.quizzes))
	}
}

func TestSessionSubmitValidationFailure(t *testing.T) {
	srv := newTestServer()
	created := decodeBody[sessionResponse](t, srv.doJSON(http.MethodPost, "/sessions", nil))

	rec := srv.doJSON(http.MethodPost, "/sessions/"+created.SessionID+"/submit", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	payload := decodeBody[submitResponse](t, rec)
	if payload.Confirmation != quizform.ConfirmNone || len(payload.Messages) == 0 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if srv.store.saves != 0 {
		t.Fatalf("expected no persistence")
	}
}

func TestSessionErrors(t *testing.T) {
	srv := newTestServer()
	created := decodeBody[sessionResponse](t, srv.doJSON(http.MethodPost, "/sessions", nil))
	base := "/sessions/" + created.SessionID

	if rec := srv.doJSON(http.MethodPut, base+"/questions/3", contentRequest{Content: "x"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range question status = %d", rec.Code)
	}
	if rec := srv.doJSON(http.MethodPut, base+"/questions/0/options/4/correct", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range option status = %d", rec.Code)
	}
	if rec := srv.doJSON(http.MethodGet, "/sessions/unknown", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session status = %d", rec.Code)
	}

	if _, err := srv.sessions.BeginSubmit(created.SessionID); err != nil {
		t.Fatalf("BeginSubmit failed: %v", err)
	}
	if rec := srv.doJSON(http.MethodPost, base+"/submit", nil); rec.Code != http.StatusConflict {
		t.Fatalf("pending submit status = %d", rec.Code)
	}

	if rec := srv.doJSON(http.MethodDelete, base, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := srv.doJSON(http.MethodGet, base, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted session status = %d", rec.Code)
	}
}

func TestSessionSubmitPanicReleasesSession(t *testing.T) {
	srv := newTestServer()
	srv.do(http.MethodPost, "/quizzes/update", "application/x-www-form-urlencoded", validForm().Encode())
	created := decodeBody[sessionResponse](t, srv.doJSON(http.MethodPost, "/sessions", createSessionRequest{QuizID: int64Ptr(1)}))
	base := "/sessions/" + created.SessionID

	srv.store.panicOnSave = true
	if rec := srv.doJSON(http.MethodPost, base+"/submit", nil); rec.Code != http.StatusInternalServerError {
		t.Fatalf("panicking submit status = %d, body %s", rec.Code, rec.Body.String())
	}

	title := "After"
	if rec := srv.doJSON(http.MethodPut, base+"/fields", fieldsRequest{Title: &title}); rec.Code != http.StatusOK {
		t.Fatalf("edit after failed submit status = %d, body %s", rec.Code, rec.Body.String())
	}

	srv.store.panicOnSave = false
	rec := srv.doJSON(http.MethodPost, base+"/submit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("retry submit status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := srv.store.quizzes[1].Title; got != "After" {
		t.Fatalf("expected retried submit to save, got title %q", got)
	}
}

func TestSessionAddAndRemoveQuestions(t *testing.T) {
	srv := newTestServer()
	created := decodeBody[sessionResponse](t, srv.doJSON(http.MethodPost, "/sessions", nil))
	base := "/sessions/" + created.SessionID

	rec := srv.doJSON(http.MethodDelete, base+"/questions/0", nil)
	if state := decodeBody[sessionResponse](t, rec).State; len(state.Questions) != 1 {
		t.Fatalf("last question was removed: %+v", state)
	}

	srv.doJSON(http.MethodPost, base+"/questions", nil)
	rec = srv.doJSON(http.MethodDelete, base+"/questions/1", nil)
	if state := decodeBody[sessionResponse](t, rec).State; len(state.Questions) != 1 {
		t.Fatalf("expected 1 question, got %+v", state)
	}
}

func TestCreateSessionFromExistingQuizAndTrivia(t *testing.T) {
	srv := newTestServer()
	srv.do(http.MethodPost, "/quizzes/update", "application/x-www-form-urlencoded", validForm().Encode())

	rec := srv.doJSON(http.MethodPost, "/sessions", createSessionRequest{QuizID: int64Ptr(1)})
	state := decodeBody[sessionResponse](t, rec).State
	if state.ID == nil || *state.ID != 1 || state.Title != "T" || state.Status != quiz.StatusPublished {
		t.Fatalf("unexpected edit session: %+v", state)
	}

	if rec := srv.doJSON(http.MethodPost, "/sessions", createSessionRequest{QuizID: int64Ptr(7)}); rec.Code != http.StatusNotFound {
		t.Fatalf("missing quiz status = %d", rec.Code)
	}

	srv.trivia.questions = []opentdb.RawQuestion{
		{Question: "Q &amp; A", CorrectAnswer: "yes", IncorrectAnswers: []string{"no", "maybe", "never"}},
	}
	rec = srv.doJSON(http.MethodPost, "/sessions", createSessionRequest{TriviaCount: 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("trivia status = %d", rec.Code)
	}
	state = decodeBody[sessionResponse](t, rec).State
	if srv.trivia.amount != 5 || len(state.Questions) != 1 || state.Questions[0].Content != "Q & A" {
		t.Fatalf("unexpected trivia session: %+v", state)
	}

	srv.trivia.err = errors.New("timeout")
	if rec := srv.doJSON(http.MethodPost, "/sessions", createSessionRequest{TriviaCount: 5}); rec.Code != http.StatusBadGateway {
		t.Fatalf("trivia failure status = %d", rec.Code)
	}
}

func strPtr(v string) *string {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

