package calendar

import (
	"net/http"
	"testing"
	"time"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, apierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	h.now = func() time.Time { return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC) }
	return h, testutil.NewFixtures(t, db)
}

func event(title, kind string, at time.Time) models.CompanyEvent {
	return models.CompanyEvent{ID: primitive.NewObjectID(), Title: title, Kind: kind, StartsAt: at}
}

func TestList_DefaultMonthAndFilters(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deadline := time.Date(2025, time.March, 25, 18, 0, 0, 0, time.UTC)
	acme := fx.CreateCompanyWith(ctx, models.Company{
		Name: "Acme", Role: "SE", ApplyDeadline: &deadline,
		Events: []models.CompanyEvent{
			event("Talk", "pre_placement_talk", time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)),
			event("April test", "test", time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)),
		},
	})
	fx.CreateCompanyWith(ctx, models.Company{
		Name: "Globex", Role: "SE",
		Events: []models.CompanyEvent{event("Interview", "interview", time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC))},
	})

	st := fx.CreateStudent(ctx, "Asha", "asha@test.edu")
	fx.CreateApplication(ctx, st, acme)
	student := testutil.StudentPrincipal(st.ID, st.Name, st.Email)

	get := func(target string) calendarResponse {
		t.Helper()
		rec := testutil.NewRecorder()
		h.List(rec, testutil.NewAuthenticatedRequest(http.MethodGet, target, student))
		rec.AssertStatus(t, http.StatusOK)
		var resp calendarResponse
		rec.DecodeJSON(t, &resp)
		return resp
	}

	month := get("/api/calendar")
	if month.From != "2025-03-01" || month.To != "2025-04-01" {
		t.Errorf("default window = %s..%s", month.From, month.To)
	}
	if len(month.Entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(month.Entries), month.Entries)
	}
	if month.Entries[0].Title != "Talk" || month.Entries[2].Kind != KindDeadline {
		t.Errorf("entries out of order: %+v", month.Entries)
	}

	if got := get("/api/calendar?kind=deadline"); len(got.Entries) != 1 {
		t.Errorf("deadline filter returned %d entries", len(got.Entries))
	}
	if got := get("/api/calendar?mine=true"); len(got.Entries) != 2 {
		t.Errorf("mine filter returned %d entries, want 2", len(got.Entries))
	}
	if got := get("/api/calendar?company_id=" + acme.ID.Hex() + "&from=2025-04-01&to=2025-05-01"); len(got.Entries) != 1 ||
		got.Entries[0].Title != "April test" {
		t.Errorf("april window returned %+v", got.Entries)
	}
}

func TestList_BadInput(t *testing.T) {
	h, _ := newTestHandler(t)
	tests := []string{
		"/api/calendar?from=03-01-2025",
		"/api/calendar?to=2025-03-01",
		"/api/calendar?from=2025-03-10&to=2025-03-01",
		"/api/calendar?from=2025-01-01&to=2026-06-01",
		"/api/calendar?kind=party",
		"/api/calendar?company_id=nope",
	}
	for _, target := range tests {
		rec := testutil.NewRecorder()
		h.List(rec, testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.StudentUser()))
		rec.AssertStatus(t, http.StatusBadRequest)
	}

	rec := testutil.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/calendar?mine=true", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}
