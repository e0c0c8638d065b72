package makerclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quizform"
)

const (
	defaultServer      = "http://127.0.0.1:8080"
	defaultListLimit   = 10
	defaultTriviaCount = 5
	defaultHTTPTimeout = 5 * time.Second
)

type Config struct {
	ServerURL   string
	ListLimit   int
	HTTPTimeout time.Duration
}

type session struct {
	client    *HTTPClient
	serverURL string
	out       io.Writer
	editor    *quizform.Editor
}

func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}

	listLimit := cfg.ListLimit
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	s := &session{
		client:    NewHTTPClient(serverURL, &http.Client{Timeout: timeout}),
		serverURL: serverURL,
		out:       out,
	}
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "quiz-maker\nserver=%s\n\n", serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(line) != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])
		if command == "exit" {
			return nil
		}
		if err := s.dispatch(ctx, command, args, line, listLimit); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func (s *session) dispatch(ctx context.Context, command string, args []string, line string, listLimit int) error {
	switch command {
	case "help":
		printHelp(s.out)
	case "quizzes":
		limit, err := parsePositiveLimit(args, 1, listLimit)
		if err != nil {
			return fmt.Errorf("invalid quizzes limit: %w", err)
		}
		return s.runList(ctx, limit)
	case "categories":
		return s.runCategories(ctx)
	case "show":
		id, err := parseQuizIDArg(args)
		if err != nil {
			return err
		}
		item, err := s.client.GetQuiz(ctx, id)
		if err != nil {
			return describeClientError(err, s.serverURL)
		}
		printState(s.out, quizform.New(&item).Snapshot())
	case "new":
		s.editor = quizform.New(nil)
		printState(s.out, s.editor.Snapshot())
	case "edit":
		id, err := parseQuizIDArg(args)
		if err != nil {
			return err
		}
		item, err := s.client.GetQuiz(ctx, id)
		if err != nil {
			return describeClientError(err, s.serverURL)
		}
		s.editor = quizform.New(&item)
		printState(s.out, s.editor.Snapshot())
	case "trivia":
		count, err := parsePositiveLimit(args, 1, defaultTriviaCount)
		if err != nil {
			return fmt.Errorf("invalid trivia count: %w", err)
		}
		state, err := s.client.TriviaDraft(ctx, count)
		if err != nil {
			return describeClientError(err, s.serverURL)
		}
		s.editor = quizform.NewWithQuestions(state.Questions)
		printState(s.out, s.editor.Snapshot())
	case "form":
		editor, err := s.requireEditor()
		if err != nil {
			return err
		}
		printState(s.out, editor.Snapshot())
	case "values":
		editor, err := s.requireEditor()
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, editor.Submission().Values().Encode())
	case "submit":
		return s.runSubmit(ctx)
	default:
		return s.edit(command, args, line)
	}
	return nil
}

// edit handles the commands that change the local editor.
func (s *session) edit(command string, args []string, line string) error {
	switch command {
	case "title", "description", "category", "status", "question", "option", "correct", "add", "remove":
	default:
		fmt.Fprintln(s.out, "unknown command. type 'help' for usage.")
		return nil
	}

	editor, err := s.requireEditor()
	if err != nil {
		return err
	}
	state := editor.Snapshot()

	switch command {
	case "title":
		editor.SetTitle(restOfLine(line, 1))
	case "description":
		editor.SetDescription(restOfLine(line, 1))
	case "category":
		if len(args) != 2 {
			return errors.New("usage: category <id|none>")
		}
		if strings.EqualFold(args[1], "none") {
			editor.SetCategory(nil)
			break
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return errors.New("category must be a positive integer or 'none'")
		}
		editor.SetCategory(&id)
	case "status":
		if len(args) != 2 {
			return errors.New("usage: status <published|unpublished>")
		}
		editor.SetStatus(quiz.Status(strings.ToLower(args[1])))
	case "question":
		if len(args) < 2 {
			return errors.New("usage: question <n> <text>")
		}
		q, err := parseQuestionNumber(args[1], state)
		if err != nil {
			return err
		}
		editor.EditQuestionContent(q, restOfLine(line, 2))
	case "option":
		if len(args) < 3 {
			return errors.New("usage: option <n> <A-D> <text>")
		}
		q, o, err := parseOptionArgs(args[1], args[2], state)
		if err != nil {
			return err
		}
		editor.EditOptionContent(q, o, restOfLine(line, 3))
	case "correct":
		if len(args) != 3 {
			return errors.New("usage: correct <n> <A-D>")
		}
		q, o, err := parseOptionArgs(args[1], args[2], state)
		if err != nil {
			return err
		}
		editor.SetCorrectOption(q, o)
	case "add":
		editor.AddQuestion()
		fmt.Fprintf(s.out, "Added question %d.\n", len(editor.Snapshot().Questions))
		return nil
	case "remove":
		if len(args) != 2 {
			return errors.New("usage: remove <n>")
		}
		q, err := parseQuestionNumber(args[1], state)
		if err != nil {
			return err
		}
		if len(state.Questions) == 1 {
			fmt.Fprintln(s.out, "A quiz needs at least one question.")
			return nil
		}
		editor.RemoveQuestion(q)
	}

	fmt.Fprintln(s.out, "ok")
	return nil
}

func (s *session) requireEditor() (*quizform.Editor, error) {
	if s.editor == nil {
		return nil, errors.New("no quiz open. use 'new', 'edit <id>' or 'trivia [count]'")
	}
	return s.editor, nil
}

func (s *session) runList(ctx context.Context, limit int) error {
	quizzes, err := s.client.ListQuizzes(ctx, limit)
	if err != nil {
		return describeClientError(err, s.serverURL)
	}

	if len(quizzes) == 0 {
		fmt.Fprintln(s.out, "No quizzes yet.")
		return nil
	}

	fmt.Fprintln(s.out, "Quizzes:")
	for _, item := range quizzes {
		fmt.Fprintf(s.out, "%d. %s [%s] (%d questions, updated %s)\n",
			item.ID,
			item.Title,
			quiz.StatusFor(item.IsPublished),
			item.QuestionCount,
			item.UpdatedAt.Format(time.RFC3339),
		)
	}
	return nil
}

func (s *session) runCategories(ctx context.Context) error {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return describeClientError(err, s.serverURL)
	}
	for _, category := range categories {
		fmt.Fprintf(s.out, "%d. %s\n", category.ID, category.Label)
	}
	return nil
}

func (s *session) runSubmit(ctx context.Context) error {
	editor, err := s.requireEditor()
	if err != nil {
		return err
	}

	result, err := s.client.UpdateQuiz(ctx, editor.Submission().Values())
	if err != nil {
		return describeClientError(err, s.serverURL)
	}

	switch quizform.ConfirmationFor(result) {
	case quizform.ConfirmPublished:
		editor.MarkSaved(*result.Quiz)
		fmt.Fprintf(s.out, "Quiz published: %q (id %d)\n", result.Quiz.Title, result.Quiz.ID)
	case quizform.ConfirmDraftSaved:
		editor.MarkSaved(*result.Quiz)
		fmt.Fprintf(s.out, "Draft saved: %q (id %d)\n", result.Quiz.Title, result.Quiz.ID)
	default:
		fmt.Fprintln(s.out, "The quiz was not saved:")
		for _, message := range result.Errors.Messages() {
			fmt.Fprintf(s.out, "  %s\n", message)
		}
	}
	return nil
}
