package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/primemath/internal/grading"
)

// BuildHintPrompt asks for a hint that does not reveal the answer. The
// student's attempt is mentioned only when there is one.
func BuildHintPrompt(problemText string, userAnswer *float64) string {
	attempt := ""
	if userAnswer != nil {
		attempt = "The student answered: " + grading.FormatAnswer(*userAnswer)
	}

	return fmt.Sprintf(`Given this math problem:
"%s"
%s

Provide a helpful hint that guides the student without giving away the answer.
Keep it encouraging and age-appropriate for primary school students.`, problemText, attempt)
}

// BuildFeedbackPrompt asks for two or three sentences of feedback. The
// verdict shown to the model uses the looser feedback epsilon.
func BuildFeedbackPrompt(problemText string, correct, user float64) string {
	verdict := grading.DescribeForFeedback(correct, user)

	result, tone := "INCORRECT", "constructive"
	if verdict.Correct {
		result, tone = "CORRECT", "encouraging"
	}

	var b strings.Builder
	b.WriteString("You are a patient math tutor for Singapore primary school students.\n\n")
	fmt.Fprintf(&b, "Problem: \"%s\"\n", problemText)
	fmt.Fprintf(&b, "Correct answer: %s\n", grading.FormatAnswer(correct))
	fmt.Fprintf(&b, "Student's answer: %s\n", grading.FormatAnswer(user))
	fmt.Fprintf(&b, "Result: %s\n\n", result)
	fmt.Fprintf(&b, "Provide %s feedback in 2-3 sentences.\n", tone)
	if !verdict.Correct {
		b.WriteString("Briefly explain where they might have gone wrong.")
	}
	return b.String()
}
