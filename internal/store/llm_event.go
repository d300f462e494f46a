package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by ent's SQL builders and the
// global sequence counter.
type eventRepo struct {
	s *Store
}

var llmEventFields = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := r.s.builder().Insert(llmEventsTableName).
		Columns(llmEventFields[1:]...).
		Values(seqNum, r.s.now(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := r.s.builder()
	t := b.Table(llmEventsTableName)
	sel := b.Select(columns(t, llmEventFields)...).From(t)

	var preds []*entsql.Predicate
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ(t.C("purpose"), opts.Purpose))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(t.C("sequence") + " DESC")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	b := r.s.builder()
	t := b.Table(llmEventsTableName)
	query, args := b.Select(columns(t, llmEventFields)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	e, err := scanLLMEvent(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	b := r.s.builder()
	t := b.Table(llmEventsTableName)
	query, args := b.Select(
		t.C("purpose"),
		"COUNT(*)",
		"COALESCE(SUM("+t.C("input_tokens")+"), 0)",
		"COALESCE(SUM("+t.C("output_tokens")+"), 0)",
		"COALESCE(AVG("+t.C("latency_ms")+"), 0)",
	).
		From(t).
		GroupBy(t.C("purpose")).
		OrderBy(t.C("purpose")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var (
			u   PurposeUsage
			avg float64
		)
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.AvgLatencyMs = int(avg)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	b := r.s.builder()
	t := b.Table(llmEventsTableName)
	query, args := b.Select(
		t.C("model"),
		"COUNT(*)",
		"COALESCE(SUM("+t.C("input_tokens")+"), 0)",
		"COALESCE(SUM("+t.C("output_tokens")+"), 0)",
	).
		From(t).
		GroupBy(t.C("model")).
		OrderBy(t.C("model")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (*LLMRequestEvent, error) {
	var e LLMRequestEvent
	err := row.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	e.Timestamp = e.Timestamp.UTC()
	return &e, nil
}
