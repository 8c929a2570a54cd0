package companies

import (
	"net/http"
	"testing"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/indexes"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/placementhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	logger := zap.NewNop()
	h := NewHandler(db, auditlog.New(audit.New(db), logger, auditlog.Config{}),
		apierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestList_FiltersByStatus(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateCompany(ctx, "Acme", models.CompanyStatusOpen)
	fx.CreateCompany(ctx, "Globex", models.CompanyStatusClosed)

	rec := testutil.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/companies?status=open", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	var got []models.Company
	rec.DecodeJSON(t, &got)
	if len(got) != 1 || got[0].Name != "Acme" {
		t.Errorf("got %+v, want only Acme", got)
	}

	rec = testutil.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/companies?status=bogus", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestList_EligibleOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	st, _ := fx.CreateStudentWithProfile(ctx, "Asha", "asha@test.edu")
	fx.CreateCompanyWith(ctx, models.Company{Name: "Easy", Role: "SE", Eligibility: models.Eligibility{MinCGPA: 7}})
	fx.CreateCompanyWith(ctx, models.Company{Name: "Hard", Role: "SE", Eligibility: models.Eligibility{MinCGPA: 9}})
	fx.CreateCompanyWith(ctx, models.Company{Name: "MechOnly", Role: "SE", Eligibility: models.Eligibility{Departments: []string{"MECH"}}})

	rec := testutil.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/companies?eligible=true",
		testutil.StudentPrincipal(st.ID, st.Name, st.Email)))
	rec.AssertStatus(t, http.StatusOK)
	var got []models.Company
	rec.DecodeJSON(t, &got)
	if len(got) != 1 || got[0].Name != "Easy" {
		t.Errorf("got %+v, want only Easy", got)
	}
}

func TestGet_HidesParticipantsFromStudents(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	st, _ := fx.CreateStudentWithProfile(ctx, "Ravi", "ravi@test.edu")
	c := fx.CreateCompany(ctx, "Acme", models.CompanyStatusOpen)
	if err := h.Store.RecordApplication(ctx, c.ID, models.Participant{StudentID: st.ID, Name: st.Name, Email: st.Email}); err != nil {
		t.Fatalf("RecordApplication: %v", err)
	}

	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/api/companies/"+c.ID.Hex(),
		testutil.StudentPrincipal(st.ID, st.Name, st.Email)), "id", c.ID.Hex())
	rec := testutil.NewRecorder()
	h.Get(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var view companyView
	rec.DecodeJSON(t, &view)
	if len(view.Participants) != 0 {
		t.Errorf("student saw participants: %+v", view.Participants)
	}
	if !view.AlreadyApplied || view.ParticipantsCnt != 1 {
		t.Errorf("already_applied=%v participant_count=%d", view.AlreadyApplied, view.ParticipantsCnt)
	}
	if view.Eligible == nil || !*view.Eligible {
		t.Errorf("expected eligible, got %v", view.Eligible)
	}

	req = testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/api/companies/"+c.ID.Hex(),
		testutil.AdminUser()), "id", c.ID.Hex())
	rec = testutil.NewRecorder()
	h.Get(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &view)
	if len(view.Participants) != 1 {
		t.Errorf("admin participants = %d, want 1", len(view.Participants))
	}
}

func TestGet_NotFoundAndBadID(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.Get(rec, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.AdminUser()),
		"id", "nope"))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = testutil.NewRecorder()
	h.Get(rec, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.AdminUser()),
		"id", "64b7f0c2a1b2c3d4e5f60718"))
	rec.AssertStatus(t, http.StatusNotFound)
	if code := rec.ErrorCode(t); code != apierrors.CodeNotFound {
		t.Errorf("error code = %q", code)
	}
}

func TestCreate_DuplicateNameConflicts(t *testing.T) {
	h, _ := newTestHandler(t)
	body := map[string]any{"name": "Initech", "role": "Analyst", "status": "open"}

	rec := testutil.NewRecorder()
	h.Create(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/companies", body), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusCreated)
	var created models.Company
	rec.DecodeJSON(t, &created)
	if created.ID.IsZero() || created.Status != models.CompanyStatusOpen {
		t.Errorf("unexpected company: %+v", created)
	}

	body["name"] = "INITECH"
	rec = testutil.NewRecorder()
	h.Create(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/companies", body), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusConflict)
}

func TestCreate_RejectsUnknownEventKind(t *testing.T) {
	h, _ := newTestHandler(t)
	body := map[string]any{
		"name": "Umbrella", "role": "SE",
		"events": []map[string]any{{"title": "Party", "kind": "party", "starts_at": "2025-01-01T10:00:00Z"}},
	}
	rec := testutil.NewRecorder()
	h.Create(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/companies", body), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestDelete_CascadesToApplications(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	st := fx.CreateStudent(ctx, "Meera", "meera@test.edu")
	c := fx.CreateCompany(ctx, "Acme", models.CompanyStatusOpen)
	fx.CreateApplication(ctx, st, c)
	fx.CreateMessage(ctx, c.ID, "general", st, "hello")

	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", testutil.AdminUser()), "id", c.ID.Hex())
	rec := testutil.NewRecorder()
	h.Delete(rec, req)
	rec.AssertStatus(t, http.StatusNoContent)

	db := fx.DB()
	for _, coll := range []string{"companies", "student_applications", "discussion_messages"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil || n != 0 {
			t.Errorf("%s: count = %d, err = %v", coll, n, err)
		}
	}

	rec = testutil.NewRecorder()
	h.Delete(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestDelete_DependentFailureIsServerError(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := fx.CreateCompany(ctx, "Acme", models.CompanyStatusOpen)

	// Deletes against a view fail, so the resource cascade errors out.
	db := fx.DB()
	if err := db.Collection("company_resources").Drop(ctx); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := db.CreateView(ctx, "company_resources", "companies", mongo.Pipeline{}); err != nil {
		t.Fatalf("CreateView: %v", err)
	}

	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", testutil.AdminUser()), "id", c.ID.Hex())
	rec := testutil.NewRecorder()
	h.Delete(rec, req)
	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestEvents_AddAndRemove(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := fx.CreateCompany(ctx, "Acme", models.CompanyStatusOpen)

	req := testutil.WithChiURLParam(testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/",
		map[string]any{"title": "Pre-placement talk", "kind": "pre_placement_talk", "starts_at": "2025-02-01T09:00:00Z"}),
		testutil.AdminUser()), "id", c.ID.Hex())
	rec := testutil.NewRecorder()
	h.AddEvent(rec, req)
	rec.AssertStatus(t, http.StatusCreated)
	var ev models.CompanyEvent
	rec.DecodeJSON(t, &ev)
	if ev.ID.IsZero() {
		t.Fatal("event has no id")
	}

	del := testutil.WithChiURLParams(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", testutil.AdminUser()),
		map[string]string{"id": c.ID.Hex(), "eventID": ev.ID.Hex()})
	rec = testutil.NewRecorder()
	h.RemoveEvent(rec, del)
	rec.AssertStatus(t, http.StatusNoContent)

	rec = testutil.NewRecorder()
	h.RemoveEvent(rec, del)
	rec.AssertStatus(t, http.StatusNotFound)

	unknown := testutil.WithChiURLParams(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", testutil.AdminUser()),
		map[string]string{"id": c.ID.Hex(), "eventID": "64b7f0c2a1b2c3d4e5f60718"})
	rec = testutil.NewRecorder()
	h.RemoveEvent(rec, unknown)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestApplications_ByStatus(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := fx.CreateCompany(ctx, "Acme", models.CompanyStatusOpen)
	fx.CreateApplication(ctx, fx.CreateStudent(ctx, "A", "a@test.edu"), c)
	fx.CreateApplication(ctx, fx.CreateStudent(ctx, "B", "b@test.edu"), c)

	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/?status=applied", testutil.AdminUser()), "id", c.ID.Hex())
	rec := testutil.NewRecorder()
	h.Applications(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var apps []models.StudentApplication
	rec.DecodeJSON(t, &apps)
	if len(apps) != 2 {
		t.Errorf("got %d applications, want 2", len(apps))
	}
}

func TestRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	r := chi.NewRouter()
	r.Route("/api/companies", h.MountRoutes)
	r.Route("/api/admin/companies", h.MountAdminRoutes)

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/companies", testutil.StudentUser()))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/admin/companies/64b7f0c2a1b2c3d4e5f60718/applications", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusNotFound)
}
