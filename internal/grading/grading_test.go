package grading

import (
	"errors"
	"math"
	"testing"
)

func TestEpsilons(t *testing.T) {
	tests := []struct {
		correct        float64
		wantFeedback   float64
		wantSubmission float64
	}{
		{0, 0.01, 0.001},
		{5, 0.01, 0.001},
		{-5, 0.01, 0.001},
		{100, 0.1, 0.01},
		{-20000, 20, 2},
	}

	for _, tc := range tests {
		if got := FeedbackEpsilon(tc.correct); math.Abs(got-tc.wantFeedback) > 1e-12 {
			t.Errorf("FeedbackEpsilon(%v) = %v, want %v", tc.correct, got, tc.wantFeedback)
		}
		if got := SubmissionEpsilon(tc.correct); math.Abs(got-tc.wantSubmission) > 1e-12 {
			t.Errorf("SubmissionEpsilon(%v) = %v, want %v", tc.correct, got, tc.wantSubmission)
		}
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name    string
		correct float64
		user    float64
		want    bool
	}{
		{"exact", 5, 5, true},
		{"within tolerance", 5, 5.0001, true},
		{"zero vs small offset", 0, 0.002, false},
		{"boundary is exclusive", 0, 0.001, false},
		{"relative tolerance on large values", 10000, 10000.5, true},
		{"rounded repeating decimal", 0.571428, 0.5714285714, true},
		{"negative", -2.5, -2.5004, true},
		{"wrong", 4, 5, false},
		{"nan user", 1, math.NaN(), false},
		{"inf user", 1, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(tt.correct, tt.user)
			if got.Correct != tt.want {
				t.Errorf("Grade(%v, %v).Correct = %v, want %v", tt.correct, tt.user, got.Correct, tt.want)
			}
			if got.Epsilon != SubmissionEpsilon(tt.correct) {
				t.Errorf("Grade used epsilon %v, want submission epsilon", got.Epsilon)
			}
		})
	}
}

func TestDescribeForFeedback_IsLooserThanGrade(t *testing.T) {
	// 0.002 away from zero: wrong for the record, close enough for the
	// feedback wording.
	if Grade(0, 0.002).Correct {
		t.Fatal("expected submission grading to reject 0.002")
	}
	if !DescribeForFeedback(0, 0.002).Correct {
		t.Fatal("expected feedback tolerance to accept 0.002")
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"5", 5, false},
		{" 0.75 ", 0.75, false},
		{"-3.5", -3.5, false},
		{"4/8", 0.5, false},
		{"-3/4", -0.75, false},
		{"1e3", 1000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1/0", 0, true},
		{"1/2/3", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseAnswer(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseAnswer(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrNotANumber) {
				t.Errorf("ParseAnswer(%q) error %v does not wrap ErrNotANumber", tc.input, err)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAnswer(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatAnswer(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{0.571428, "0.571428"},
		{-2.5, "-2.5"},
	}
	for _, tc := range tests {
		if got := FormatAnswer(tc.in); got != tc.want {
			t.Errorf("FormatAnswer(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
