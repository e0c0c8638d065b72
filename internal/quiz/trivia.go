package quiz

import (
	"html"
	"math/rand"

	"quiz-maker/internal/opentdb"
)

// BuildQuestions converts OpenTriviaDB questions into editor questions. Only
// questions with exactly three incorrect answers fit the four-option shape;
// the rest are skipped.
func BuildQuestions(raw []opentdb.RawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		if len(item.IncorrectAnswers) != OptionsPerQuestion-1 {
			continue
		}
		questions = append(questions, buildQuestion(item))
	}
	return questions
}

func buildQuestion(raw opentdb.RawQuestion) Question {
	options := make([]Option, 0, OptionsPerQuestion)
	for _, incorrect := range raw.IncorrectAnswers {
		options = append(options, Option{Content: html.UnescapeString(incorrect)})
	}
	options = append(options, Option{
		Content:   html.UnescapeString(raw.CorrectAnswer),
		IsCorrect: true,
	})

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	question := Question{Content: html.UnescapeString(raw.Question)}
	copy(question.Options[:], options)
	return question
}
