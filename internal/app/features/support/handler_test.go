package support

import (
	"net/http"
	"testing"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/placementhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*Handler, chi.Router) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := NewHandler(db, auditlog.New(audit.New(db), logger, auditlog.Config{}),
		apierrors.NewErrorLogger(logger), logger)
	r := chi.NewRouter()
	r.Route("/api/support", h.MountRoutes)
	r.Route("/api/admin/support", h.MountAdminRoutes)
	return h, r
}

func do(t *testing.T, r chi.Router, method, target string, body any, p *auth.Principal) *testutil.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = testutil.NewRequest(method, target)
	} else {
		req = testutil.NewJSONRequest(t, method, target, body)
	}
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(req, p))
	return rec
}

func TestCreate_NumbersPerKind(t *testing.T) {
	_, r := newTestRouter(t)
	p := testutil.StudentUser()
	body := map[string]any{"subject": "Cannot upload resume", "description": "The upload button does nothing."}

	var first, second, bug models.Ticket
	rec := do(t, r, http.MethodPost, "/api/support/support", body, p)
	rec.AssertStatus(t, http.StatusCreated)
	rec.DecodeJSON(t, &first)
	rec = do(t, r, http.MethodPost, "/api/support/support", body, p)
	rec.DecodeJSON(t, &second)
	rec = do(t, r, http.MethodPost, "/api/support/bug", body, p)
	rec.AssertStatus(t, http.StatusCreated)
	rec.DecodeJSON(t, &bug)

	assert.Equal(t, "TKT-000001", first.TicketNumber)
	assert.Equal(t, "TKT-000002", second.TicketNumber)
	assert.Equal(t, "BUG-000001", bug.TicketNumber)
	assert.Equal(t, models.TicketOpen, first.Status)
	assert.Equal(t, models.PriorityMedium, first.Priority)
	assert.Equal(t, p.ID, first.StudentID)
}

func TestCreate_KindSpecificFields(t *testing.T) {
	_, r := newTestRouter(t)
	p := testutil.StudentUser()

	rec := do(t, r, http.MethodPost, "/api/support/feature", map[string]any{
		"subject": "Dark mode", "description": "Please", "use_case": "night study", "rating": 4,
	}, p)
	rec.AssertStatus(t, http.StatusCreated)
	var feat models.Ticket
	rec.DecodeJSON(t, &feat)
	assert.Equal(t, "night study", feat.UseCase)
	assert.Zero(t, feat.Rating, "rating only applies to feedback")

	rec = do(t, r, http.MethodPost, "/api/support/feedback", map[string]any{
		"subject": "Great drive", "description": "Smooth", "rating": 5,
	}, p)
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "FDBK-000001")
}

func TestCreate_Validation(t *testing.T) {
	_, r := newTestRouter(t)
	p := testutil.StudentUser()
	tests := []struct {
		name   string
		target string
		body   map[string]any
	}{
		{"unknown kind", "/api/support/complaint", map[string]any{"subject": "s", "description": "d"}},
		{"missing subject", "/api/support/help", map[string]any{"description": "d"}},
		{"missing description", "/api/support/help", map[string]any{"subject": "s"}},
		{"feedback without rating", "/api/support/feedback", map[string]any{"subject": "s", "description": "d"}},
		{"feedback rating too high", "/api/support/feedback", map[string]any{"subject": "s", "description": "d", "rating": 6}},
		{"bad priority", "/api/support/help", map[string]any{"subject": "s", "description": "d", "priority": "asap"}},
		{"bad page url", "/api/support/bug", map[string]any{"subject": "s", "description": "d", "page_url": "javascript:x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			do(t, r, http.MethodPost, tt.target, tt.body, p).AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestGet_OwnerOrAdmin(t *testing.T) {
	_, r := newTestRouter(t)
	owner := testutil.StudentUser()
	rec := do(t, r, http.MethodPost, "/api/support/help", map[string]any{"subject": "s", "description": "d"}, owner)
	var tk models.Ticket
	rec.DecodeJSON(t, &tk)

	do(t, r, http.MethodGet, "/api/support/help/"+tk.TicketNumber, nil, owner).AssertStatus(t, http.StatusOK)
	do(t, r, http.MethodGet, "/api/support/help/help-000001", nil, owner).AssertStatus(t, http.StatusOK)
	do(t, r, http.MethodGet, "/api/support/help/"+tk.TicketNumber, nil, testutil.StudentUser()).AssertStatus(t, http.StatusNotFound)
	do(t, r, http.MethodGet, "/api/support/help/"+tk.TicketNumber, nil, testutil.AdminUser()).AssertStatus(t, http.StatusOK)
	do(t, r, http.MethodGet, "/api/support/help/HELP-000099", nil, owner).AssertStatus(t, http.StatusNotFound)

	rec = do(t, r, http.MethodGet, "/api/support/help/mine", nil, owner)
	rec.AssertStatus(t, http.StatusOK)
	var mine []models.Ticket
	rec.DecodeJSON(t, &mine)
	assert.Len(t, mine, 1)
}

func TestAdminUpdate(t *testing.T) {
	_, r := newTestRouter(t)
	owner := testutil.StudentUser()
	admin := testutil.AdminUser()
	rec := do(t, r, http.MethodPost, "/api/support/support", map[string]any{"subject": "s", "description": "d"}, owner)
	var tk models.Ticket
	rec.DecodeJSON(t, &tk)
	target := "/api/admin/support/support/" + tk.TicketNumber

	rec = do(t, r, http.MethodPatch, target, map[string]any{"status": "resolved", "response": "Fixed, please retry."}, admin)
	rec.AssertStatus(t, http.StatusOK)
	var got models.Ticket
	rec.DecodeJSON(t, &got)
	assert.Equal(t, models.TicketResolved, got.Status)
	assert.NotNil(t, got.ResolvedAt)
	require.Len(t, got.Responses, 1)
	assert.Equal(t, admin.ID, got.Responses[0].AuthorID)

	rec = do(t, r, http.MethodPatch, target, map[string]any{"response": "One more note"}, admin)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	assert.Len(t, got.Responses, 2)
	assert.Equal(t, models.TicketResolved, got.Status)

	do(t, r, http.MethodPatch, target, map[string]any{"status": "lost"}, admin).AssertStatus(t, http.StatusBadRequest)
	do(t, r, http.MethodPatch, target, map[string]any{}, admin).AssertStatus(t, http.StatusBadRequest)
	do(t, r, http.MethodPatch, "/api/admin/support/support/TKT-000404", map[string]any{"status": "closed"}, admin).
		AssertStatus(t, http.StatusNotFound)

	rec = do(t, r, http.MethodGet, "/api/admin/support/support?status=resolved", nil, admin)
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Ticket
	rec.DecodeJSON(t, &list)
	assert.Len(t, list, 1)
}
