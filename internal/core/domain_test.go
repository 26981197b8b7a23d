package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"2024-03", "2024-03", true},
		{"1999-12", "1999-12", true},
		{"2024-13", "", false},
		{"2024-3", "", false},
		{"2024-03-01", "", false},
		{"março", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q: expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidMonth) {
				t.Fatalf("%q: expected ErrInvalidMonth, got %v", tc.in, err)
			}
		}
	}
}

func TestMonthOfTruncates(t *testing.T) {
	m := MonthOf(time.Date(2024, time.March, 17, 15, 4, 5, 0, time.UTC))
	if m.String() != "2024-03" {
		t.Fatalf("expected 2024-03, got %s", m)
	}
	if m.Time.Day() != 1 {
		t.Fatalf("expected first of month, got day %d", m.Time.Day())
	}
	if m.Label() != "03/2024" {
		t.Fatalf("expected label 03/2024, got %s", m.Label())
	}
}

func TestValidTopN(t *testing.T) {
	for _, n := range TopNOptions {
		if !ValidTopN(n) {
			t.Fatalf("%d should be a valid top-n", n)
		}
	}
	for _, n := range []int{0, -5, 7, 15, 100} {
		if ValidTopN(n) {
			t.Fatalf("%d should not be a valid top-n", n)
		}
	}
}

func TestDataAccessErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDataAccessError("ranking", cause)

	if !errors.Is(err, cause) {
		t.Fatal("DataAccessError should unwrap to its cause")
	}
	var dae *DataAccessError
	if !errors.As(error(err), &dae) || dae.Op != "ranking" {
		t.Fatalf("errors.As failed or wrong op: %+v", dae)
	}
}
