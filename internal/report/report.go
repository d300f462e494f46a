// Package report exports practice history as an Excel workbook.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/primemath/internal/store"
)

const (
	SheetSessions    = "Sessions"
	SheetSubmissions = "Submissions"
)

var (
	sessionHeader    = []any{"Session ID", "Created", "Topic ID", "Topic", "Problem", "Correct answer", "Attempts", "Solved"}
	submissionHeader = []any{"Session ID", "Submission ID", "Submitted", "Answer", "Correct", "Feedback"}
)

// Source supplies the history to export.
type Source interface {
	ListSessions(ctx context.Context, limit int) ([]store.Session, error)
	ListSubmissions(ctx context.Context, sessionID string) ([]store.Submission, error)
}

// SessionReport is one session with its submissions in order.
type SessionReport struct {
	Session     store.Session
	Submissions []store.Submission
}

// Collect loads up to limit sessions, newest first, with their submissions.
func Collect(ctx context.Context, src Source, limit int) ([]SessionReport, error) {
	sessions, err := src.ListSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]SessionReport, 0, len(sessions))
	for _, s := range sessions {
		subs, err := src.ListSubmissions(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("list submissions for %s: %w", s.ID, err)
		}
		out = append(out, SessionReport{Session: s, Submissions: subs})
	}
	return out, nil
}

// Write renders the reports as an .xlsx workbook with a Sessions sheet and
// a Submissions sheet.
func Write(w io.Writer, reports []SessionReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSessions); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSubmissions); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := writeHeader(f, SheetSessions, sessionHeader, bold); err != nil {
		return err
	}
	if err := writeHeader(f, SheetSubmissions, submissionHeader, bold); err != nil {
		return err
	}

	sessRow, subRow := 2, 2
	for _, r := range reports {
		solved := false
		for _, sub := range r.Submissions {
			if sub.IsCorrect {
				solved = true
			}
			if err := setRow(f, SheetSubmissions, subRow, []any{
				sub.SessionID,
				sub.ID,
				formatTime(sub.CreatedAt),
				sub.UserAnswer,
				yesNo(sub.IsCorrect),
				sub.FeedbackText,
			}); err != nil {
				return err
			}
			subRow++
		}

		s := r.Session
		if err := setRow(f, SheetSessions, sessRow, []any{
			s.ID,
			formatTime(s.CreatedAt),
			s.TopicID,
			s.TopicTitle,
			s.ProblemText,
			s.CorrectAnswer,
			len(r.Submissions),
			yesNo(solved),
		}); err != nil {
			return err
		}
		sessRow++
	}

	if err := f.SetColWidth(SheetSessions, "E", "E", 60); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSubmissions, "F", "F", 60); err != nil {
		return err
	}

	return f.Write(w)
}

// Export collects history from src and writes the workbook.
func Export(ctx context.Context, src Source, limit int, w io.Writer) (int, error) {
	reports, err := Collect(ctx, src, limit)
	if err != nil {
		return 0, err
	}
	if err := Write(w, reports); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(reports), nil
}

func writeHeader(f *excelize.File, sheet string, header []any, style int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
