// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/paging"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pageSize = 50

const dateLayout = "2006-01-02"

// eventView is the JSON shape of one audit row.
type eventView struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	UserID        string            `json:"user_id,omitempty"`
	ActorID       string            `json:"actor_id,omitempty"`
	IP            string            `json:"ip"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events []eventView `json:"events"`
	Total  int64       `json:"total"`
	paging.Range
}

func hexOrEmpty(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return id.Hex()
}

// List handles GET /api/admin/audit.
//
// Filters: category (auth|admin), event_type, actor_id, start_date and
// end_date (YYYY-MM-DD, end inclusive), start (1-based offset).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(query.Get(r, "category"))
	if category != "" && !inputval.OneOf(category, []string{audit.CategoryAuth, audit.CategoryAdmin}) {
		h.ErrLog.BadRequest(w, `category must be "auth" or "admin"`)
		return
	}

	start := paging.ParseStart(r)
	filter := audit.QueryFilter{
		Category:  category,
		EventType: query.Get(r, "event_type"),
		Limit:     pageSize,
		Offset:    int64(start - 1),
	}

	if s := query.Get(r, "actor_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			h.ErrLog.BadRequest(w, "actor_id must be a valid id")
			return
		}
		filter.ActorID = &id
	}
	if s := query.Get(r, "start_date"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			h.ErrLog.BadRequest(w, "start_date must be YYYY-MM-DD")
			return
		}
		filter.StartTime = &t
	}
	if s := query.Get(r, "end_date"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			h.ErrLog.BadRequest(w, "end_date must be YYYY-MM-DD")
			return
		}
		// End of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &end
	}
	if filter.StartTime != nil && filter.EndTime != nil && filter.EndTime.Before(*filter.StartTime) {
		h.ErrLog.BadRequest(w, "end_date must not be before start_date")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err)
		return
	}
	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err)
		return
	}

	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, eventView{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			UserID:        hexOrEmpty(e.UserID),
			ActorID:       hexOrEmpty(e.ActorID),
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		})
	}

	jsonio.Write(w, http.StatusOK, listResponse{
		Events: out,
		Total:  total,
		Range:  paging.ComputeRange(start, len(out), pageSize),
	})
}
