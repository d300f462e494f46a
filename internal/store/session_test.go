package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestCreateAndGetSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	sess, err := repo.CreateSession(ctx, NewSession{
		ProblemText:   "Calculate: 2/5 × 10/7",
		CorrectAnswer: 0.571428,
		TopicID:       "p5_fr_2.3",
		TopicTitle:    "Multiplying proper fractions",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected generated id")
	}
	if sess.CreatedAt.Before(before) {
		t.Errorf("created_at %v before test start", sess.CreatedAt)
	}

	got, err := repo.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProblemText != sess.ProblemText || got.CorrectAnswer != sess.CorrectAnswer {
		t.Errorf("got %+v, want %+v", got, sess)
	}
	if got.TopicID != "p5_fr_2.3" || got.TopicTitle != "Multiplying proper fractions" {
		t.Errorf("topic = %q/%q", got.TopicID, got.TopicTitle)
	}
	if !got.CreatedAt.Equal(sess.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, sess.CreatedAt)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	for _, id := range []string{
		"00000000-0000-0000-0000-000000000000",
		"not-a-uuid",
		"",
	} {
		if _, err := repo.GetSession(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetSession(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestCreateSession_RejectsNonFinite(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := repo.CreateSession(context.Background(), NewSession{ProblemText: "x", CorrectAnswer: v})
		if !errors.Is(err, ErrNonFinite) {
			t.Errorf("CreateSession(%v) error = %v, want ErrNonFinite", v, err)
		}
	}
}

func TestListSessions_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		sess, err := repo.CreateSession(ctx, NewSession{ProblemText: "p", CorrectAnswer: float64(i)})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, sess.ID)
	}

	all, err := repo.ListSessions(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d sessions, want 3", len(all))
	}
	for i := range all {
		if all[i].ID != ids[len(ids)-1-i] {
			t.Errorf("sessions[%d] = %s, want %s", i, all[i].ID, ids[len(ids)-1-i])
		}
	}

	limited, err := repo.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != ids[2] {
		t.Errorf("limited list = %+v", limited)
	}
}

func TestSubmissions_OrderedOldestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	sess, err := repo.CreateSession(ctx, NewSession{ProblemText: "5 + 5", CorrectAnswer: 10})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Freeze the clock so every row shares a timestamp; the sequence
	// column must still keep insertion order.
	frozen := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	answers := []float64{9, 11, 10}
	for _, a := range answers {
		_, err := repo.CreateSubmission(ctx, NewSubmission{
			SessionID:    sess.ID,
			UserAnswer:   a,
			IsCorrect:    a == 10,
			FeedbackText: "ok",
		})
		if err != nil {
			t.Fatalf("create submission %v: %v", a, err)
		}
	}

	subs, err := repo.ListSubmissions(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != len(answers) {
		t.Fatalf("got %d submissions, want %d", len(subs), len(answers))
	}
	for i, a := range answers {
		if subs[i].UserAnswer != a {
			t.Errorf("subs[%d].UserAnswer = %v, want %v", i, subs[i].UserAnswer, a)
		}
		if subs[i].SessionID != sess.ID {
			t.Errorf("subs[%d].SessionID = %q", i, subs[i].SessionID)
		}
	}
	if !subs[2].IsCorrect || subs[0].IsCorrect {
		t.Errorf("correctness not persisted: %+v", subs)
	}
}

func TestCreateSubmission_UnknownSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	missing := "11111111-1111-1111-1111-111111111111"
	_, err := repo.CreateSubmission(ctx, NewSubmission{SessionID: missing, UserAnswer: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + submissionsTableName).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("submissions written = %d, want 0", count)
	}
}

func TestCreateSubmission_RejectsNonFinite(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	sess, err := repo.CreateSession(ctx, NewSession{ProblemText: "p", CorrectAnswer: 1})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	_, err = repo.CreateSubmission(ctx, NewSubmission{SessionID: sess.ID, UserAnswer: math.NaN()})
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("error = %v, want ErrNonFinite", err)
	}
}

func TestListSubmissions_Empty(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	sess, err := repo.CreateSession(ctx, NewSession{ProblemText: "p", CorrectAnswer: 1})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	subs, err := repo.ListSubmissions(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("got %d submissions, want 0", len(subs))
	}
}
