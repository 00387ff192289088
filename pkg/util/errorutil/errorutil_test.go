package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no rows", fmt.Errorf("get case: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"malformed uuid", fmt.Errorf("get case: %w", &pgconn.PgError{Code: "22P02"}), CodeNotFound, http.StatusNotFound},
		{"other postgres error", &pgconn.PgError{Code: "23505"}, CodeInternal, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
		{"domain error", NewConflict("stale", nil), CodeConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			if got.Code != tc.code || got.HTTPStatus != tc.status {
				t.Fatalf("got %s/%d, want %s/%d", got.Code, got.HTTPStatus, tc.code, tc.status)
			}
		})
	}
	if ToDomainError(nil) != nil || MapError(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}
