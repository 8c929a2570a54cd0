package auditlog_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/placementhub/internal/app/features/auditlog"
	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listBody struct {
	Events []struct {
		EventType string            `json:"event_type"`
		Category  string            `json:"category"`
		ActorID   string            `json:"actor_id"`
		Details   map[string]string `json:"details"`
	} `json:"events"`
	Total     int64 `json:"total"`
	Start     int   `json:"start"`
	End       int   `json:"end"`
	NextStart int   `json:"next_start"`
}

func newTestHandler(t *testing.T) *auditlog.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return auditlog.NewHandler(db, apierrors.NewErrorLogger(logger), logger)
}

func seed(t *testing.T, h *auditlog.Handler, actor primitive.ObjectID) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	day := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventMagicLinkUsed, Timestamp: day, Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventCompanyCreated, ActorID: &actor, Timestamp: day.Add(time.Hour), Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventNoticeCreated, ActorID: &actor, Timestamp: day.AddDate(0, 0, 2), Success: true},
	}
	for _, e := range events {
		if err := h.Store.Log(ctx, e); err != nil {
			t.Fatalf("seed audit event: %v", err)
		}
	}
}

func list(t *testing.T, h *auditlog.Handler, target string) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.AdminUser()))
	return rec
}

func TestList_NewestFirst(t *testing.T) {
	h := newTestHandler(t)
	seed(t, h, primitive.NewObjectID())

	rec := list(t, h, "/api/admin/audit")
	rec.AssertStatus(t, http.StatusOK)

	var body listBody
	rec.DecodeJSON(t, &body)
	if body.Total != 3 || len(body.Events) != 3 {
		t.Fatalf("expected 3 events, got total=%d len=%d", body.Total, len(body.Events))
	}
	if body.Events[0].EventType != audit.EventNoticeCreated {
		t.Errorf("expected newest first, got %q", body.Events[0].EventType)
	}
	if body.Start != 1 || body.End != 3 || body.NextStart != 4 {
		t.Errorf("unexpected range: %+v", body)
	}
}

func TestList_Filters(t *testing.T) {
	h := newTestHandler(t)
	actor := primitive.NewObjectID()
	seed(t, h, actor)

	tests := []struct {
		name  string
		query string
		want  int64
	}{
		{"category auth", "?category=auth", 1},
		{"category admin", "?category=ADMIN", 2},
		{"event type", "?event_type=" + audit.EventCompanyCreated, 1},
		{"actor", "?actor_id=" + actor.Hex(), 2},
		{"other actor", "?actor_id=" + primitive.NewObjectID().Hex(), 0},
		{"single day", "?start_date=2026-10-01&end_date=2026-10-01", 2},
		{"from day three", "?start_date=2026-10-03", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := list(t, h, "/api/admin/audit"+tt.query)
			rec.AssertStatus(t, http.StatusOK)
			var body listBody
			rec.DecodeJSON(t, &body)
			if body.Total != tt.want {
				t.Errorf("total = %d, want %d", body.Total, tt.want)
			}
		})
	}
}

func TestList_BadInput(t *testing.T) {
	h := newTestHandler(t)

	for _, q := range []string{
		"?category=security",
		"?actor_id=nope",
		"?start_date=10/01/2026",
		"?end_date=yesterday",
		"?start_date=2026-10-05&end_date=2026-10-01",
	} {
		rec := list(t, h, "/api/admin/audit"+q)
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}
