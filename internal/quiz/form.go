package quiz

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Flat form keys used at the action boundary.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategoryID  = "categoryId"
	FieldStatus      = "status"
)

var (
	questionKey = regexp.MustCompile(`^questions\[(\d+)\]\.content$`)
	optionKey   = regexp.MustCompile(`^questions\[(\d+)\]\.options\[(\d+)\]\.(content|isCorrect)$`)
)

func QuestionContentKey(q int) string {
	return "questions[" + strconv.Itoa(q) + "].content"
}

func OptionContentKey(q, o int) string {
	return "questions[" + strconv.Itoa(q) + "].options[" + strconv.Itoa(o) + "].content"
}

func OptionCorrectKey(q, o int) string {
	return "questions[" + strconv.Itoa(q) + "].options[" + strconv.Itoa(o) + "].isCorrect"
}

// ParseForm maps flat form values onto a Submission. Question positions are
// ordering keys: they are sorted and compacted, so gaps never produce blank
// questions. Option positions outside the fixed range are dropped.
func ParseForm(values url.Values) Submission {
	sub := Submission{
		ID:          values.Get(FieldID),
		Title:       values.Get(FieldTitle),
		Description: values.Get(FieldDescription),
		CategoryID:  values.Get(FieldCategoryID),
		Status:      values.Get(FieldStatus),
	}

	byPosition := make(map[int]*SubmittedQuestion)
	question := func(pos int) *SubmittedQuestion {
		item, ok := byPosition[pos]
		if !ok {
			item = &SubmittedQuestion{}
			byPosition[pos] = item
		}
		return item
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if m := questionKey.FindStringSubmatch(key); m != nil {
			pos, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			question(pos).Content = vals[0]
			continue
		}
		if m := optionKey.FindStringSubmatch(key); m != nil {
			pos, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			optIdx, err := strconv.Atoi(m[2])
			if err != nil || optIdx >= OptionsPerQuestion {
				continue
			}
			item := question(pos)
			if m[3] == "content" {
				item.Options[optIdx].Content = vals[0]
			} else {
				item.Options[optIdx].IsCorrect = isChecked(vals[0])
			}
		}
	}

	positions := make([]int, 0, len(byPosition))
	for pos := range byPosition {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	sub.Questions = make([]SubmittedQuestion, 0, len(positions))
	for _, pos := range positions {
		sub.Questions = append(sub.Questions, *byPosition[pos])
	}
	return sub
}

// Values flattens the submission into form keys; unchecked options are
// omitted the way a browser omits unchecked inputs.
func (s Submission) Values() url.Values {
	values := url.Values{}
	if s.ID != "" {
		values.Set(FieldID, s.ID)
	}
	values.Set(FieldTitle, s.Title)
	values.Set(FieldDescription, s.Description)
	if s.CategoryID != "" {
		values.Set(FieldCategoryID, s.CategoryID)
	}
	if s.Status != "" {
		values.Set(FieldStatus, s.Status)
	}

	for qIdx, question := range s.Questions {
		values.Set(QuestionContentKey(qIdx), question.Content)
		for oIdx, option := range question.Options {
			values.Set(OptionContentKey(qIdx, oIdx), option.Content)
			if option.IsCorrect {
				values.Set(OptionCorrectKey(qIdx, oIdx), "true")
			}
		}
	}
	return values
}

func isChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on":
		return true
	default:
		return false
	}
}
