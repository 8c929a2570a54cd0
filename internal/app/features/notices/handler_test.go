package notices

import (
	"net/http"
	"testing"
	"time"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/app/system/auditlog"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/placementhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := NewHandler(db, auditlog.New(audit.New(db), logger, auditlog.Config{}),
		apierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestList_HidesExpiredAndInactive(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	fx.CreateNotice(ctx, "Expired", &past)
	fx.CreateNotice(ctx, "Soon", &future)
	fx.CreateNotice(ctx, "Forever", nil)
	off := fx.CreateNotice(ctx, "Off", nil)
	off.Active = false
	_, err := h.Store.Update(ctx, off.ID, off)
	require.NoError(t, err)

	rec := testutil.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/notices", testutil.StudentUser()))
	rec.AssertStatus(t, http.StatusOK)
	var got []models.Notice
	rec.DecodeJSON(t, &got)
	titles := []string{}
	for _, n := range got {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"Soon", "Forever"}, titles)

	rec = testutil.NewRecorder()
	h.AdminList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/admin/notices", testutil.AdminUser()))
	rec.DecodeJSON(t, &got)
	assert.Len(t, got, 4)
}

func TestCreateUpdateDelete(t *testing.T) {
	h, _ := newTestHandler(t)
	admin := testutil.AdminUser()

	rec := testutil.NewRecorder()
	h.Create(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/notices", map[string]any{
		"title": "Drive on Monday", "content": "<p>Report at <b>9am</b></p><script>x()</script>", "priority": "Urgent",
	}), admin))
	rec.AssertStatus(t, http.StatusCreated)
	var n models.Notice
	rec.DecodeJSON(t, &n)
	assert.Equal(t, "<p>Report at <b>9am</b></p>", n.Content)
	assert.Equal(t, models.NoticeUrgent, n.Priority)
	assert.True(t, n.Active)
	require.NotNil(t, n.CreatedByID)
	assert.Equal(t, admin.ID, *n.CreatedByID)

	rec = testutil.NewRecorder()
	h.Update(rec, testutil.WithChiURLParam(testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPut, "/", map[string]any{
		"title": "Drive moved", "content": "Tuesday now", "active": false,
	}), admin), "id", n.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	var upd models.Notice
	rec.DecodeJSON(t, &upd)
	assert.Equal(t, "Drive moved", upd.Title)
	assert.False(t, upd.Active)
	assert.Equal(t, models.NoticeInfo, upd.Priority)

	del := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", admin), "id", n.ID.Hex())
	rec = testutil.NewRecorder()
	h.Delete(rec, del)
	rec.AssertStatus(t, http.StatusNoContent)
	rec = testutil.NewRecorder()
	h.Delete(rec, del)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestCreate_Validation(t *testing.T) {
	h, _ := newTestHandler(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"content": "c"}},
		{"markup only content", map[string]any{"title": "t", "content": "<script>x</script>"}},
		{"bad priority", map[string]any{"title": "t", "content": "c", "priority": "meh"}},
		{"bad link", map[string]any{"title": "t", "content": "c", "link": "notaurl"}},
		{"past expiry", map[string]any{"title": "t", "content": "c", "expires_at": time.Now().Add(-time.Minute)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.Create(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", tt.body), testutil.AdminUser()))
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}
