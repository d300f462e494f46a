// Package tutor ties problem generation, grading and AI feedback to the
// session store.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/grading"
	"github.com/abhisek/primemath/internal/llm"
	"github.com/abhisek/primemath/internal/problemgen"
	"github.com/abhisek/primemath/internal/store"
)

var (
	// ErrSessionNotFound is returned when a session id does not resolve.
	ErrSessionNotFound = fmt.Errorf("session not found: %w", store.ErrNotFound)

	// ErrInvalidAnswer is returned for a NaN or infinite user answer.
	ErrInvalidAnswer = errors.New("answer must be a finite number")
)

// GeneratedProblem is a freshly created session as shown to the learner.
type GeneratedProblem struct {
	ID            string    `json:"id"`
	ProblemText   string    `json:"problem_text"`
	CorrectAnswer float64   `json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
	TopicID       string    `json:"topic_id"`
	TopicTitle    string    `json:"topic_title"`
}

// Hint is model guidance for a session. It is not stored.
type Hint struct {
	Hint string `json:"hint"`
}

// SubmissionResult is the outcome of one graded answer. CorrectAnswer is set
// only when the answer was wrong.
type SubmissionResult struct {
	ID            string   `json:"id"`
	IsCorrect     bool     `json:"is_correct"`
	Feedback      string   `json:"feedback"`
	CorrectAnswer *float64 `json:"correct_answer,omitempty"`
}

// Service runs the learner-facing operations.
type Service struct {
	provider llm.Provider
	sessions store.SessionRepo
	gen      *problemgen.Generator
	catalog  *curriculum.Catalog
	grade    curriculum.Grade
	log      *zap.Logger
}

// Option customizes a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	catalog *curriculum.Catalog
	grade   curriculum.Grade
	genCfg  problemgen.Config
	log     *zap.Logger
}

// WithCatalog replaces the embedded curriculum.
func WithCatalog(c *curriculum.Catalog) Option {
	return func(o *serviceOptions) { o.catalog = c }
}

// WithGrade sets the grade problems are drawn from. Default PRIMARY_5.
func WithGrade(g curriculum.Grade) Option {
	return func(o *serviceOptions) { o.grade = g }
}

// WithGeneratorConfig overrides token and temperature settings for
// problem generation.
func WithGeneratorConfig(cfg problemgen.Config) Option {
	return func(o *serviceOptions) { o.genCfg = cfg }
}

// WithLogger sets the logger. Nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *serviceOptions) { o.log = l }
}

// NewService creates a Service.
func NewService(provider llm.Provider, sessions store.SessionRepo, opts ...Option) *Service {
	o := serviceOptions{
		catalog: curriculum.Default(),
		grade:   curriculum.GradePrimary5,
		genCfg:  problemgen.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	return &Service{
		provider: provider,
		sessions: sessions,
		gen:      problemgen.New(provider, o.catalog, o.genCfg),
		catalog:  o.catalog,
		grade:    o.grade,
		log:      o.log,
	}
}

// GenerateProblem creates a new session for a random topic. Nothing is
// stored unless the model response parses.
func (s *Service) GenerateProblem(ctx context.Context) (*GeneratedProblem, error) {
	p, err := s.gen.Generate(ctx, s.grade)
	if err != nil {
		var pe *problemgen.ParseError
		if errors.As(err, &pe) {
			s.log.Warn("model response rejected",
				zap.Stringer("kind", pe.Kind),
				zap.String("raw", pe.Raw),
				zap.Error(pe.Err))
		}
		return nil, fmt.Errorf("generate problem: %w", err)
	}

	sess, err := s.sessions.CreateSession(ctx, store.NewSession{
		ProblemText:   p.Text,
		CorrectAnswer: p.Answer,
		TopicID:       p.Topic.ID,
		TopicTitle:    p.Topic.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("problem generated",
		zap.String("session_id", sess.ID),
		zap.String("topic_id", p.Topic.ID))

	return &GeneratedProblem{
		ID:            sess.ID,
		ProblemText:   sess.ProblemText,
		CorrectAnswer: sess.CorrectAnswer,
		CreatedAt:     sess.CreatedAt,
		TopicID:       sess.TopicID,
		TopicTitle:    sess.TopicTitle,
	}, nil
}

// GetHint asks the model for a hint on a session's problem.
func (s *Service) GetHint(ctx context.Context, sessionID string, userAnswer *float64) (*Hint, error) {
	if userAnswer != nil && !grading.IsFinite(*userAnswer) {
		return nil, ErrInvalidAnswer
	}

	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeHint)
	text, err := llm.GenerateText(ctx, s.provider, BuildHintPrompt(sess.ProblemText, userAnswer))
	if err != nil {
		return nil, fmt.Errorf("generate hint: %w", err)
	}

	s.log.Info("hint generated", zap.String("session_id", sessionID))
	return &Hint{Hint: text}, nil
}

// SubmitAnswer grades an answer, asks for feedback and records the
// submission. An unknown session writes nothing.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID string, userAnswer float64) (*SubmissionResult, error) {
	if !grading.IsFinite(userAnswer) {
		return nil, ErrInvalidAnswer
	}

	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := grading.Grade(sess.CorrectAnswer, userAnswer)

	ctx = llm.WithPurpose(ctx, llm.PurposeFeedback)
	feedback, err := llm.GenerateText(ctx, s.provider,
		BuildFeedbackPrompt(sess.ProblemText, sess.CorrectAnswer, userAnswer))
	if err != nil {
		return nil, fmt.Errorf("generate feedback: %w", err)
	}

	sub, err := s.sessions.CreateSubmission(ctx, store.NewSubmission{
		SessionID:    sess.ID,
		UserAnswer:   userAnswer,
		IsCorrect:    result.Correct,
		FeedbackText: feedback,
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	s.log.Info("answer submitted",
		zap.String("session_id", sess.ID),
		zap.String("submission_id", sub.ID),
		zap.Bool("correct", result.Correct))

	out := &SubmissionResult{
		ID:        sub.ID,
		IsCorrect: sub.IsCorrect,
		Feedback:  sub.FeedbackText,
	}
	if !result.Correct {
		correct := sess.CorrectAnswer
		out.CorrectAnswer = &correct
	}
	return out, nil
}

// GetSession loads a session.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*store.Session, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// ListSubmissions returns a session's submissions, oldest first.
func (s *Service) ListSubmissions(ctx context.Context, sessionID string) ([]store.Submission, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	subs, err := s.sessions.ListSubmissions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// ListSessions returns recent sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, limit int) ([]store.Session, error) {
	sessions, err := s.sessions.ListSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Topics lists the topics of the configured grade.
func (s *Service) Topics() []curriculum.Topic {
	return s.catalog.TopicsByGrade(s.grade)
}

// Grade returns the configured grade.
func (s *Service) Grade() curriculum.Grade {
	return s.grade
}
