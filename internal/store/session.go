package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// sessionRepo implements SessionRepo with ent's SQL builders.
type sessionRepo struct {
	s *Store
}

var sessionFields = []string{"id", "problem_text", "correct_answer", "topic_id", "topic_title", "created_at"}

func (r *sessionRepo) CreateSession(ctx context.Context, in NewSession) (*Session, error) {
	if math.IsNaN(in.CorrectAnswer) || math.IsInf(in.CorrectAnswer, 0) {
		return nil, fmt.Errorf("correct answer: %w", ErrNonFinite)
	}

	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:            uuid.NewString(),
		ProblemText:   in.ProblemText,
		CorrectAnswer: in.CorrectAnswer,
		TopicID:       in.TopicID,
		TopicTitle:    in.TopicTitle,
		CreatedAt:     r.s.now(),
	}

	query, args := r.s.builder().Insert(sessionsTableName).
		Columns("id", "sequence", "problem_text", "correct_answer", "topic_id", "topic_title", "created_at").
		Values(sess.ID, seqNum, sess.ProblemText, sess.CorrectAnswer, sess.TopicID, sess.TopicTitle, sess.CreatedAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (r *sessionRepo) GetSession(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	b := r.s.builder()
	t := b.Table(sessionsTableName)
	query, args := b.Select(columns(t, sessionFields)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	var sess Session
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(
		&sess.ID, &sess.ProblemText, &sess.CorrectAnswer, &sess.TopicID, &sess.TopicTitle, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sess.CreatedAt = sess.CreatedAt.UTC()
	return &sess, nil
}

func (r *sessionRepo) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	b := r.s.builder()
	t := b.Table(sessionsTableName)
	sel := b.Select(columns(t, sessionFields)...).
		From(t).
		OrderBy(t.C("sequence") + " DESC")
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.ProblemText, &sess.CorrectAnswer,
			&sess.TopicID, &sess.TopicTitle, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.CreatedAt = sess.CreatedAt.UTC()
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (r *sessionRepo) CreateSubmission(ctx context.Context, in NewSubmission) (*Submission, error) {
	if math.IsNaN(in.UserAnswer) || math.IsInf(in.UserAnswer, 0) {
		return nil, fmt.Errorf("user answer: %w", ErrNonFinite)
	}

	// Sessions are never deleted, so checking first is enough to keep
	// orphans out; the foreign key backs it up.
	if _, err := r.GetSession(ctx, in.SessionID); err != nil {
		return nil, err
	}

	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		ID:           uuid.NewString(),
		SessionID:    in.SessionID,
		UserAnswer:   in.UserAnswer,
		IsCorrect:    in.IsCorrect,
		FeedbackText: in.FeedbackText,
		CreatedAt:    r.s.now(),
	}

	query, args := r.s.builder().Insert(submissionsTableName).
		Columns("id", "sequence", "session_id", "user_answer", "is_correct", "feedback_text", "created_at").
		Values(sub.ID, seqNum, sub.SessionID, sub.UserAnswer, sub.IsCorrect, sub.FeedbackText, sub.CreatedAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	return sub, nil
}

func (r *sessionRepo) ListSubmissions(ctx context.Context, sessionID string) ([]Submission, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, nil
	}

	b := r.s.builder()
	t := b.Table(submissionsTableName)
	query, args := b.Select(columns(t, []string{"id", "session_id", "user_answer", "is_correct", "feedback_text", "created_at"})...).
		From(t).
		Where(entsql.EQ(t.C("session_id"), sessionID)).
		OrderBy(t.C("created_at"), t.C("sequence")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.SessionID, &sub.UserAnswer,
			&sub.IsCorrect, &sub.FeedbackText, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.CreatedAt = sub.CreatedAt.UTC()
		out = append(out, sub)
	}
	return out, rows.Err()
}

// columns qualifies each name with the table.
func columns(t *entsql.SelectTable, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = t.C(n)
	}
	return out
}
