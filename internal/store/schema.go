package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names. The session tables keep the names used by the hosted
// deployment so existing databases can be opened directly.
const (
	sessionsTableName    = "math_problem_sessions"
	submissionsTableName = "math_problem_submissions"
	llmEventsTableName   = "llm_request_events"
	sequenceTableName    = "global_sequence"
)

var (
	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "problem_text", Type: field.TypeString, Size: 2147483647},
		{Name: "correct_answer", Type: field.TypeFloat64},
		{Name: "topic_id", Type: field.TypeString, Default: ""},
		{Name: "topic_title", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	sessionsTable = &schema.Table{
		Name:       sessionsTableName,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "mathproblemsession_created_at", Columns: []*schema.Column{sessionsColumns[6]}},
		},
	}

	submissionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "user_answer", Type: field.TypeFloat64},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "feedback_text", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString, Size: 36},
	}
	submissionsTable = &schema.Table{
		Name:       submissionsTableName,
		Columns:    submissionsColumns,
		PrimaryKey: []*schema.Column{submissionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "math_problem_submissions_session",
				Columns:    []*schema.Column{submissionsColumns[6]},
				RefColumns: []*schema.Column{sessionsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{Name: "mathproblemsubmission_session_id_created_at", Columns: []*schema.Column{submissionsColumns[6], submissionsColumns[5]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       llmEventsTableName,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
			{Name: "llmrequestevent_model", Columns: []*schema.Column{llmEventsColumns[4]}},
		},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       sequenceTableName,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{
		sessionsTable,
		submissionsTable,
		llmEventsTable,
		sequenceTable,
	}
)

func init() {
	submissionsTable.ForeignKeys[0].RefTable = sessionsTable
}

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
