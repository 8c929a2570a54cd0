package paging

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", DefaultLimit},
		{"?limit=10", 10},
		{"?limit=0", DefaultLimit},
		{"?limit=-4", DefaultLimit},
		{"?limit=abc", DefaultLimit},
		{"?limit=100", 100},
		{"?limit=500", MaxLimit},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/x"+tt.query, nil)
		if got := ParseLimit(r, DefaultLimit, MaxLimit); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestParseBefore(t *testing.T) {
	r := httptest.NewRequest("GET", "/x", nil)
	id, err := ParseBefore(r)
	if err != nil || id != nil {
		t.Fatalf("absent before: got %v, %v", id, err)
	}

	want := primitive.NewObjectID()
	r = httptest.NewRequest("GET", "/x?before="+want.Hex(), nil)
	id, err = ParseBefore(r)
	if err != nil {
		t.Fatalf("ParseBefore: %v", err)
	}
	if id == nil || *id != want {
		t.Errorf("ParseBefore = %v, want %v", id, want)
	}

	r = httptest.NewRequest("GET", "/x?before=nope", nil)
	if _, err := ParseBefore(r); err != ErrBadCursor {
		t.Errorf("bad cursor err = %v, want ErrBadCursor", err)
	}
}

func TestParseStart(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?start=26", 26},
		{"?start=0", 1},
		{"?start=x", 1},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/x"+tt.query, nil)
		if got := ParseStart(r); got != tt.want {
			t.Errorf("ParseStart(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestNextCursor(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	idFn := func(id primitive.ObjectID) primitive.ObjectID { return id }

	if c := NextCursor(ids[:0], 3, idFn); c.HasMore || c.NextBefore != "" {
		t.Errorf("empty page cursor = %+v", c)
	}
	if c := NextCursor(ids[:2], 3, idFn); c.HasMore {
		t.Errorf("short page should have no more, got %+v", c)
	}
	c := NextCursor(ids, 3, idFn)
	if !c.HasMore || c.NextBefore != ids[2].Hex() {
		t.Errorf("full page cursor = %+v, want next_before %s", c, ids[2].Hex())
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name  string
		start int
		shown int
		size  int
		want  Range
	}{
		{"empty", 1, 0, 25, Range{Start: 0, End: 0, PrevStart: 1, NextStart: 1}},
		{"first page", 1, 25, 25, Range{Start: 1, End: 25, PrevStart: 1, NextStart: 26}},
		{"second page", 26, 25, 25, Range{Start: 26, End: 50, PrevStart: 1, NextStart: 51}},
		{"partial third", 51, 7, 25, Range{Start: 51, End: 57, PrevStart: 26, NextStart: 58}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeRange(tt.start, tt.shown, tt.size); got != tt.want {
				t.Errorf("ComputeRange = %+v, want %+v", got, tt.want)
			}
		})
	}
}
