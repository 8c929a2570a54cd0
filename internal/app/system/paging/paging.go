// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page size bounds shared by list endpoints.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ErrBadCursor is returned when the "before" parameter is not an ObjectID.
var ErrBadCursor = errors.New("before must be a valid message id")

// ParseLimit reads the "limit" query parameter. Missing or non-positive
// values yield def; values above max are capped.
func ParseLimit(r *http.Request, def, max int) int {
	n, err := strconv.Atoi(query.Get(r, "limit"))
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// ParseBefore reads the "before" ObjectID cursor. It returns nil when the
// parameter is absent.
func ParseBefore(r *http.Request) (*primitive.ObjectID, error) {
	s := query.Get(r, "before")
	if s == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, ErrBadCursor
	}
	return &id, nil
}

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Cursor tells a client how to fetch the next (older) page of a
// newest-first list.
type Cursor struct {
	HasMore    bool   `json:"has_more"`
	NextBefore string `json:"next_before,omitempty"`
}

// NextCursor builds the cursor for rows fetched with the given limit.
// A full page is assumed to have more behind it.
func NextCursor[T any](rows []T, limit int, idFn func(T) primitive.ObjectID) Cursor {
	if len(rows) == 0 || len(rows) < limit {
		return Cursor{}
	}
	return Cursor{HasMore: true, NextBefore: idFn(rows[len(rows)-1]).Hex()}
}

// Range holds computed display range values for an offset-paged list.
type Range struct {
	Start     int `json:"start"` // 1-based start index (0 if no results)
	End       int `json:"end"`   // 1-based end index (0 if no results)
	PrevStart int `json:"prev_start"`
	NextStart int `json:"next_start"`
}

// ComputeRange calculates display range values given the current start index,
// the page size and number of items shown.
func ComputeRange(start, shown, pageSize int) Range {
	if shown == 0 {
		return Range{Start: 0, End: 0, PrevStart: 1, NextStart: 1}
	}

	prevStart := start - pageSize
	if prevStart < 1 {
		prevStart = 1
	}

	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: prevStart,
		NextStart: start + shown,
	}
}
