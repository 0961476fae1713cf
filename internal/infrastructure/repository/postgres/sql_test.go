package postgres

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("select: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: connection refused")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestIsUndefinedTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sqlstate", err: fakeErr("pq: something (42P01)"), want: true},
		{name: "message", err: fakeErr(`pq: relation "kv_entries" does not exist`), want: true},
		{name: "unrelated", err: fakeErr("pq: bind message supplies 2 parameters"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isUndefinedTable(tc.err); got != tc.want {
				t.Fatalf("isUndefinedTable()=%v want=%v", got, tc.want)
			}
		})
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
