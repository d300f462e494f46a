package practice

import "github.com/abhisek/primemath/internal/tutor"

// problemReadyMsg carries a freshly generated problem.
type problemReadyMsg struct {
	Problem *tutor.GeneratedProblem
	Err     error
}

// hintReadyMsg carries a hint for the current problem.
type hintReadyMsg struct {
	Hint string
	Err  error
}

// submitDoneMsg carries the graded result of an answer.
type submitDoneMsg struct {
	Answer float64
	Result *tutor.SubmissionResult
	Err    error
}
