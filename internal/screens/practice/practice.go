// Package practice is the problem-solving screen: generate a problem,
// take answers, show hints and feedback.
package practice

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/screen"
	"github.com/abhisek/primemath/internal/tutor"
	"github.com/abhisek/primemath/internal/ui/components"
	"github.com/abhisek/primemath/internal/ui/layout"
)

// Tutor is what the screen needs from tutor.Service.
type Tutor interface {
	GenerateProblem(ctx context.Context) (*tutor.GeneratedProblem, error)
	GetHint(ctx context.Context, sessionID string, userAnswer *float64) (*tutor.Hint, error)
	SubmitAnswer(ctx context.Context, sessionID string, userAnswer float64) (*tutor.SubmissionResult, error)
}

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseChecking
	phaseFeedback
	phaseError
)

const answerPlaceholder = "Type your answer..."

// PracticeScreen implements screen.Screen for the practice loop.
type PracticeScreen struct {
	tutor   Tutor
	grade   curriculum.Grade
	timeout time.Duration

	phase     phase
	prevPhase phase
	problem   *tutor.GeneratedProblem
	input     components.TextInput
	hint      string
	hinting   bool
	result    *tutor.SubmissionResult
	answer    float64
	inputErr  string
	errMsg    string

	solved   int
	attempts int
}

var (
	_ screen.Screen          = (*PracticeScreen)(nil)
	_ screen.KeyHintProvider = (*PracticeScreen)(nil)
	_ screen.StatusProvider  = (*PracticeScreen)(nil)
)

// New creates a PracticeScreen. timeout bounds each model call; zero
// means no deadline.
func New(t Tutor, grade curriculum.Grade, timeout time.Duration) *PracticeScreen {
	return &PracticeScreen{
		tutor:   t,
		grade:   grade,
		timeout: timeout,
		input:   components.NewTextInput(answerPlaceholder, true, 20),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.generate(), s.input.Init())
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) Status() string {
	return fmt.Sprintf("%s  solved %d/%d", s.grade, s.solved, s.attempts)
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswering:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Hint"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseFeedback:
		if s.result != nil && s.result.IsCorrect {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Next problem"},
				{Key: "Esc", Description: "Back"},
			}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Try again"},
			{Key: "N", Description: "New problem"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseError:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case problemReadyMsg:
		return s.handleProblemReady(msg)
	case hintReadyMsg:
		return s.handleHintReady(msg)
	case submitDoneMsg:
		return s.handleSubmitDone(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleProblemReady(msg problemReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = "Could not generate a problem. Check your model settings and try again."
		if s.problem == nil {
			s.phase = phaseError
			return s, nil
		}
		// The problem on screen stays playable.
		s.phase = s.prevPhase
		return s, nil
	}
	s.problem = msg.Problem
	s.hint = ""
	s.result = nil
	return s, s.resetInput()
}

func (s *PracticeScreen) handleHintReady(msg hintReadyMsg) (screen.Screen, tea.Cmd) {
	s.hinting = false
	if msg.Err != nil {
		s.hint = "No hint available right now."
		return s, nil
	}
	s.hint = msg.Hint
	return s, nil
}

func (s *PracticeScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseAnswering
		s.inputErr = "Could not check your answer. Press Enter to try again."
		return s, nil
	}
	s.attempts++
	if msg.Result.IsCorrect {
		s.solved++
	}
	s.answer = msg.Answer
	s.result = msg.Result
	s.input.Submit(msg.Result.IsCorrect)
	s.phase = phaseFeedback
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseAnswering:
		switch key {
		case "enter":
			return s.submit()
		case "tab":
			return s.requestHint()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.inputErr = ""
		return s, cmd

	case phaseFeedback:
		switch key {
		case "enter":
			if s.result != nil && s.result.IsCorrect {
				return s.next()
			}
			return s, s.resetInput()
		case "n", "N":
			return s.next()
		}

	case phaseError:
		if key == "r" || key == "R" {
			return s.next()
		}
	}
	return s, nil
}

func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	if s.problem == nil {
		return s, nil
	}
	answer, err := s.input.AnswerValue()
	if err != nil {
		s.inputErr = "Enter a number like 12, 0.5 or 3/4."
		return s, nil
	}

	s.phase = phaseChecking
	s.inputErr = ""
	id := s.problem.ID
	return s, func() tea.Msg {
		ctx, cancel := s.callContext()
		defer cancel()
		res, err := s.tutor.SubmitAnswer(ctx, id, answer)
		return submitDoneMsg{Answer: answer, Result: res, Err: err}
	}
}

func (s *PracticeScreen) requestHint() (screen.Screen, tea.Cmd) {
	if s.problem == nil || s.hinting {
		return s, nil
	}

	var attempt *float64
	if v, err := s.input.AnswerValue(); err == nil {
		attempt = &v
	}

	s.hinting = true
	id := s.problem.ID
	return s, func() tea.Msg {
		ctx, cancel := s.callContext()
		defer cancel()
		h, err := s.tutor.GetHint(ctx, id, attempt)
		if err != nil {
			return hintReadyMsg{Err: err}
		}
		return hintReadyMsg{Hint: h.Hint}
	}
}

// next asks for a new problem. The current one is kept until the
// replacement arrives.
func (s *PracticeScreen) next() (screen.Screen, tea.Cmd) {
	s.prevPhase = s.phase
	s.errMsg = ""
	return s, s.generate()
}

func (s *PracticeScreen) generate() tea.Cmd {
	s.phase = phaseLoading
	return func() tea.Msg {
		ctx, cancel := s.callContext()
		defer cancel()
		p, err := s.tutor.GenerateProblem(ctx)
		return problemReadyMsg{Problem: p, Err: err}
	}
}

func (s *PracticeScreen) resetInput() tea.Cmd {
	s.phase = phaseAnswering
	s.inputErr = ""
	s.errMsg = ""
	s.input = components.NewTextInput(answerPlaceholder, true, 20)
	return s.input.Init()
}

func (s *PracticeScreen) callContext() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(context.Background(), s.timeout)
	}
	return context.WithCancel(context.Background())
}
