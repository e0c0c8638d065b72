package quiz

import (
	"sort"
	"strconv"
	"strings"
)

type ErrorCode string

const (
	CodeEmptyField          ErrorCode = "empty_field"
	CodeTooFewQuestions     ErrorCode = "too_few_questions"
	CodeInvalidCorrectCount ErrorCode = "invalid_correct_count"
	CodeRequiredField       ErrorCode = "required_field"
)

type Issue struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorTree mirrors the shape of a Submission: one issue list per field, one
// per group (questions, a question's options) and nested entries per item.
type ErrorTree struct {
	Title         []Issue                 `json:"title,omitempty"`
	Description   []Issue                 `json:"description,omitempty"`
	Status        []Issue                 `json:"status,omitempty"`
	Questions     []Issue                 `json:"questions,omitempty"`
	QuestionItems map[int]*QuestionErrors `json:"question_items,omitempty"`
}

type QuestionErrors struct {
	Content     []Issue               `json:"content,omitempty"`
	Options     []Issue               `json:"options,omitempty"`
	OptionItems map[int]*OptionErrors `json:"option_items,omitempty"`
}

type OptionErrors struct {
	Content []Issue `json:"content,omitempty"`
}

func (t *ErrorTree) Empty() bool {
	return t == nil || (len(t.Title) == 0 &&
		len(t.Description) == 0 &&
		len(t.Status) == 0 &&
		len(t.Questions) == 0 &&
		len(t.QuestionItems) == 0)
}

// Question returns the error node for question idx, creating it on demand.
func (t *ErrorTree) Question(idx int) *QuestionErrors {
	if t.QuestionItems == nil {
		t.QuestionItems = make(map[int]*QuestionErrors)
	}
	node, ok := t.QuestionItems[idx]
	if !ok {
		node = &QuestionErrors{}
		t.QuestionItems[idx] = node
	}
	return node
}

func (q *QuestionErrors) Option(idx int) *OptionErrors {
	if q.OptionItems == nil {
		q.OptionItems = make(map[int]*OptionErrors)
	}
	node, ok := q.OptionItems[idx]
	if !ok {
		node = &OptionErrors{}
		q.OptionItems[idx] = node
	}
	return node
}

// Messages flattens the tree into "path: message" lines in a stable order.
func (t *ErrorTree) Messages() []string {
	if t == nil {
		return nil
	}

	var lines []string
	add := func(path string, issues []Issue) {
		for _, issue := range issues {
			lines = append(lines, path+": "+issue.Message)
		}
	}

	add("title", t.Title)
	add("description", t.Description)
	add("questions", t.Questions)
	for _, qIdx := range sortedKeys(t.QuestionItems) {
		node := t.QuestionItems[qIdx]
		prefix := "questions[" + strconv.Itoa(qIdx) + "]"
		add(prefix+".content", node.Content)
		add(prefix+".options", node.Options)
		for _, oIdx := range sortedKeys(node.OptionItems) {
			add(prefix+".options["+strconv.Itoa(oIdx)+"].content", node.OptionItems[oIdx].Content)
		}
	}
	add("status", t.Status)
	return lines
}

// ValidationError is returned by Validate when a submission is rejected.
type ValidationError struct {
	Tree *ErrorTree
}

func (e *ValidationError) Error() string {
	messages := e.Tree.Messages()
	if len(messages) == 0 {
		return "invalid quiz submission"
	}
	return "invalid quiz submission: " + strings.Join(messages, "; ")
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
