// Package grading decides whether a learner's numeric answer matches the
// expected one.
//
// Two tolerances exist. FeedbackEpsilon is the looser one used when
// describing an attempt to the feedback model. SubmissionEpsilon is the
// stricter one that decides the recorded pass/fail. They are kept separate
// on purpose and must not be merged.
package grading

import "math"

const (
	feedbackAbsFloor = 0.01
	feedbackRelative = 0.001

	submissionAbsFloor = 0.001
	submissionRelative = 0.0001
)

// FeedbackEpsilon returns max(0.01, |correct| × 0.001).
func FeedbackEpsilon(correct float64) float64 {
	return math.Max(feedbackAbsFloor, math.Abs(correct)*feedbackRelative)
}

// SubmissionEpsilon returns max(0.001, |correct| × 0.0001).
func SubmissionEpsilon(correct float64) float64 {
	return math.Max(submissionAbsFloor, math.Abs(correct)*submissionRelative)
}

// IsCorrect reports whether |correct − user| < eps. Non-finite values never
// match.
func IsCorrect(correct, user, eps float64) bool {
	if !IsFinite(correct) || !IsFinite(user) {
		return false
	}
	return math.Abs(correct-user) < eps
}

// Result is the outcome of grading a submission.
type Result struct {
	Correct bool

	// Epsilon is the tolerance the decision was made with.
	Epsilon float64
}

// Grade applies the submission tolerance.
func Grade(correct, user float64) Result {
	eps := SubmissionEpsilon(correct)
	return Result{
		Correct: IsCorrect(correct, user, eps),
		Epsilon: eps,
	}
}

// DescribeForFeedback applies the feedback tolerance. The result only
// shapes the wording of the feedback prompt.
func DescribeForFeedback(correct, user float64) Result {
	eps := FeedbackEpsilon(correct)
	return Result{
		Correct: IsCorrect(correct, user, eps),
		Epsilon: eps,
	}
}

// IsFinite reports whether f is neither NaN nor ±Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
