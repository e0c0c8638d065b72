package quiz

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	msgTitleRequired       = "title is required"
	msgDescriptionRequired = "description is required"
	msgQuestionsRequired   = "at least one question is required"
	msgQuestionRequired    = "question text is required"
	msgOptionRequired      = "option text is required"
	msgOneCorrectOption    = "select exactly one correct option"
	msgStatusRequired      = "status is required"
)

// Submission is the raw editor submission before validation. Text fields
// carry whatever the form sent; ID and CategoryID are coerced by Validate.
type Submission struct {
	ID          string              `json:"id,omitempty"`
	Title       string              `json:"title" validate:"notblank"`
	Description string              `json:"description" validate:"notblank"`
	CategoryID  string              `json:"category_id,omitempty"`
	Status      string              `json:"status" validate:"required,oneof=published unpublished"`
	Questions   []SubmittedQuestion `json:"questions" validate:"min=1,dive"`
}

type SubmittedQuestion struct {
	Content string                              `json:"content" validate:"notblank"`
	Options [OptionsPerQuestion]SubmittedOption `json:"options" validate:"dive"`
}

type SubmittedOption struct {
	Content   string `json:"content" validate:"notblank"`
	IsCorrect bool   `json:"is_correct"`
}

// ParsedID reports the identifier carried by the submission. An empty ID
// means "create"; a malformed one is an error.
func (s Submission) ParsedID() (int64, bool, error) {
	raw := strings.TrimSpace(s.ID)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, errors.New("id must be a positive integer")
	}
	return id, true, nil
}

// Draft is a submission that passed validation.
type Draft struct {
	ID          *int64
	Title       string
	Description string
	CategoryID  *int64
	Status      Status
	Questions   []Question
}

func (d Draft) Quiz() Quiz {
	item := Quiz{
		Title:       d.Title,
		Description: d.Description,
		CategoryID:  d.CategoryID,
		Status:      d.Status,
		Questions:   d.Questions,
	}
	if d.ID != nil {
		item.ID = *d.ID
	}
	return item
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(validateCorrectCount, SubmittedQuestion{})
	return v
}

// validateCorrectCount attaches a single error to the options group instead
// of one per option.
func validateCorrectCount(sl validator.StructLevel) {
	question := sl.Current().Interface().(SubmittedQuestion)
	correct := 0
	for _, option := range question.Options {
		if option.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		sl.ReportError(question.Options, "options", "Options", "onecorrect", "")
	}
}

// Validate checks every rule and reports all failures together. On success it
// returns the typed Draft; otherwise a *ValidationError with the error tree.
func Validate(sub Submission) (Draft, error) {
	tree := &ErrorTree{}

	if err := validate.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Draft{}, err
		}
		for _, fe := range fieldErrs {
			attachFieldError(tree, fe)
		}
	}

	if !tree.Empty() {
		return Draft{}, &ValidationError{Tree: tree}
	}

	draft := Draft{
		Title:       sub.Title,
		Description: sub.Description,
		CategoryID:  parseCategoryID(sub.CategoryID),
		Status:      Status(sub.Status),
		Questions:   make([]Question, len(sub.Questions)),
	}
	if id, ok, err := sub.ParsedID(); err == nil && ok {
		draft.ID = &id
	}
	for qIdx, submitted := range sub.Questions {
		question := Question{Content: submitted.Content}
		for oIdx, option := range submitted.Options {
			question.Options[oIdx] = Option{Content: option.Content, IsCorrect: option.IsCorrect}
		}
		draft.Questions[qIdx] = question
	}
	return draft, nil
}

func attachFieldError(tree *ErrorTree, fe validator.FieldError) {
	path := parseNamespace(fe.StructNamespace())
	if len(path) == 0 {
		return
	}

	switch path[0].name {
	case "Title":
		tree.Title = append(tree.Title, Issue{Code: CodeEmptyField, Message: msgTitleRequired})
	case "Description":
		tree.Description = append(tree.Description, Issue{Code: CodeEmptyField, Message: msgDescriptionRequired})
	case "Status":
		tree.Status = append(tree.Status, Issue{Code: CodeRequiredField, Message: msgStatusRequired})
	case "Questions":
		if path[0].index < 0 {
			tree.Questions = append(tree.Questions, Issue{Code: CodeTooFewQuestions, Message: msgQuestionsRequired})
			return
		}
		attachQuestionError(tree.Question(path[0].index), path[1:])
	}
}

func attachQuestionError(node *QuestionErrors, path []segment) {
	if len(path) == 0 {
		return
	}
	switch path[0].name {
	case "Content":
		node.Content = append(node.Content, Issue{Code: CodeEmptyField, Message: msgQuestionRequired})
	case "Options":
		if path[0].index < 0 {
			node.Options = append(node.Options, Issue{Code: CodeInvalidCorrectCount, Message: msgOneCorrectOption})
			return
		}
		if len(path) > 1 && path[1].name == "Content" {
			option := node.Option(path[0].index)
			option.Content = append(option.Content, Issue{Code: CodeEmptyField, Message: msgOptionRequired})
		}
	}
}

type segment struct {
	name  string
	index int
}

// parseNamespace turns "Submission.Questions[0].Options[2].Content" into
// segments below the root struct. Segments without an index get -1.
func parseNamespace(ns string) []segment {
	parts := strings.Split(ns, ".")
	if len(parts) < 2 {
		return nil
	}

	segments := make([]segment, 0, len(parts)-1)
	for _, part := range parts[1:] {
		seg := segment{name: part, index: -1}
		if open := strings.IndexByte(part, '['); open >= 0 && strings.HasSuffix(part, "]") {
			if idx, err := strconv.Atoi(part[open+1 : len(part)-1]); err == nil {
				seg = segment{name: part[:open], index: idx}
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

func parseCategoryID(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
