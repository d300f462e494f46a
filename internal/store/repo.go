package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNonFinite is returned when a NaN or ±Inf would be persisted.
	ErrNonFinite = errors.New("value must be a finite number")
)

// Session is a generated problem awaiting answers. Sessions are immutable.
type Session struct {
	ID            string
	ProblemText   string
	CorrectAnswer float64
	TopicID       string
	TopicTitle    string
	CreatedAt     time.Time
}

// NewSession holds the fields supplied by the caller; the store assigns
// the ID and timestamp.
type NewSession struct {
	ProblemText   string
	CorrectAnswer float64
	TopicID       string
	TopicTitle    string
}

// Submission is one graded answer against a session.
type Submission struct {
	ID           string
	SessionID    string
	UserAnswer   float64
	IsCorrect    bool
	FeedbackText string
	CreatedAt    time.Time
}

// NewSubmission holds the fields supplied by the caller.
type NewSubmission struct {
	SessionID    string
	UserAnswer   float64
	IsCorrect    bool
	FeedbackText string
}

// SessionRepo persists problem sessions and their submissions.
type SessionRepo interface {
	// CreateSession stores a new session and returns it with ID and
	// CreatedAt set.
	CreateSession(ctx context.Context, in NewSession) (*Session, error)

	// GetSession returns ErrNotFound when no session has the id.
	GetSession(ctx context.Context, id string) (*Session, error)

	// ListSessions returns the most recent sessions first. limit <= 0
	// means no limit.
	ListSessions(ctx context.Context, limit int) ([]Session, error)

	// CreateSubmission returns ErrNotFound if the session does not exist;
	// nothing is written in that case.
	CreateSubmission(ctx context.Context, in NewSubmission) (*Submission, error)

	// ListSubmissions returns a session's submissions oldest first.
	ListSubmissions(ctx context.Context, sessionID string) ([]Submission, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = any)
	After   int64  // sequence > After
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a recorded LLM call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls by purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// ModelUsage aggregates LLM calls by model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns nil, nil when the event does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
