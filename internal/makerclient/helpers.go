package makerclient

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quizform"
)

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  quizzes [limit]")
	fmt.Fprintln(out, "  categories")
	fmt.Fprintln(out, "  show <id>")
	fmt.Fprintln(out, "  new | edit <id> | trivia [count]")
	fmt.Fprintln(out, "  title <text> | description <text>")
	fmt.Fprintln(out, "  category <id|none> | status <published|unpublished>")
	fmt.Fprintln(out, "  question <n> <text>")
	fmt.Fprintln(out, "  option <n> <A-D> <text>")
	fmt.Fprintln(out, "  correct <n> <A-D>")
	fmt.Fprintln(out, "  add | remove <n>")
	fmt.Fprintln(out, "  form | values")
	fmt.Fprintln(out, "  submit")
	fmt.Fprintln(out, "  exit")
}

func printState(out io.Writer, state quizform.State) {
	id := "new"
	if state.ID != nil {
		id = strconv.FormatInt(*state.ID, 10)
	}
	category := "none"
	if state.CategoryID != nil {
		category = strconv.FormatInt(*state.CategoryID, 10)
	}

	fmt.Fprintf(out, "Quiz %s [%s] category=%s\n", id, state.Status, category)
	fmt.Fprintf(out, "Title: %s\n", state.Title)
	fmt.Fprintf(out, "Description: %s\n", state.Description)
	for qIdx, question := range state.Questions {
		fmt.Fprintf(out, "\n%d. %s\n", qIdx+1, question.Content)
		for oIdx, option := range question.Options {
			marker := " "
			if option.IsCorrect {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %c. %s\n", marker, optionLetter(oIdx), option.Content)
		}
	}
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

func parseQuizIDArg(args []string) (int64, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("usage: %s <id>", args[0])
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("quiz id must be a positive integer")
	}
	return id, nil
}

// parseQuestionNumber converts a 1-based question number into an index the
// current state can address.
func parseQuestionNumber(raw string, state quizform.State) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || !state.ValidQuestion(n-1) {
		return 0, fmt.Errorf("question must be between 1 and %d", len(state.Questions))
	}
	return n - 1, nil
}

func parseOptionLetter(raw string) (int, error) {
	letter := strings.ToUpper(strings.TrimSpace(raw))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] >= 'A'+quiz.OptionsPerQuestion {
		return 0, fmt.Errorf("option must be A-%c", optionLetter(quiz.OptionsPerQuestion-1))
	}
	return int(letter[0] - 'A'), nil
}

func parseOptionArgs(rawQuestion, rawOption string, state quizform.State) (int, int, error) {
	q, err := parseQuestionNumber(rawQuestion, state)
	if err != nil {
		return 0, 0, err
	}
	o, err := parseOptionLetter(rawOption)
	if err != nil {
		return 0, 0, err
	}
	return q, o, nil
}

func optionLetter(idx int) rune {
	return rune('A' + idx)
}

// restOfLine returns the input after the first n words, with its inner
// spacing kept.
func restOfLine(line string, n int) string {
	rest := strings.TrimSpace(line)
	for i := 0; i < n; i++ {
		idx := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' })
		if idx < 0 {
			return ""
		}
		rest = strings.TrimSpace(rest[idx:])
	}
	return rest
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}
