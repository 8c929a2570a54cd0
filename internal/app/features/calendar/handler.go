// internal/app/features/calendar/handler.go
package calendar

import (
	"context"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/dalemusser/placementhub/internal/app/features/errors"
	applicationstore "github.com/dalemusser/placementhub/internal/app/store/applications"
	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	maxWindow  = 366 * 24 * time.Hour
)

type Handler struct {
	DB           *mongo.Database
	Companies    *companystore.Store
	Applications *applicationstore.Store
	Log          *zap.Logger
	ErrLog       *apierrors.ErrorLogger

	now func() time.Time
}

func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Companies:    companystore.New(db),
		Applications: applicationstore.New(db),
		Log:          logger,
		ErrLog:       errLog,
		now:          time.Now,
	}
}

type calendarResponse struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Entries []Entry `json:"entries"`
}

// parseWindow reads from/to. Without from the current month is used; without
// to the window spans one month from from.
func (h *Handler) parseWindow(r *http.Request) (Window, string) {
	fromS, toS := query.Get(r, "from"), query.Get(r, "to")
	if fromS == "" && toS == "" {
		return MonthOf(h.now()), ""
	}
	var win Window
	if fromS == "" {
		return Window{}, "from is required when to is given"
	}
	from, err := time.Parse(dateLayout, fromS)
	if err != nil {
		return Window{}, "from must be a date (YYYY-MM-DD)"
	}
	win.From = from
	win.To = from.AddDate(0, 1, 0)
	if toS != "" {
		to, err := time.Parse(dateLayout, toS)
		if err != nil {
			return Window{}, "to must be a date (YYYY-MM-DD)"
		}
		win.To = to
	}
	if !win.To.After(win.From) {
		return Window{}, "to must be after from"
	}
	if win.To.Sub(win.From) > maxWindow {
		return Window{}, "window may span at most one year"
	}
	return win, ""
}

// List handles GET /api/calendar?from=&to=&company_id=&kind=&mine=true.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	win, msg := h.parseWindow(r)
	if msg != "" {
		h.ErrLog.BadRequest(w, msg)
		return
	}
	kind := strings.ToLower(query.Get(r, "kind"))
	if kind != "" && kind != KindDeadline && !inputval.OneOf(kind, models.EventKinds) {
		h.ErrLog.BadRequest(w, "unknown kind "+kind)
		return
	}

	var ids []primitive.ObjectID
	if s := query.Get(r, "company_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			h.ErrLog.BadRequest(w, "company_id must be a valid id")
			return
		}
		ids = []primitive.ObjectID{id}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if query.Get(r, "mine") == "true" {
		p, _ := auth.CurrentPrincipal(r)
		if !p.IsStudent() {
			h.ErrLog.BadRequest(w, "mine=true is only available to students")
			return
		}
		active, err := h.Applications.ActiveCompanyIDs(ctx, p.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load applied companies failed", err)
			return
		}
		ids = intersect(ids, active)
	}

	companies, err := h.Companies.ListForCalendar(ctx, companystore.CalendarFilter{
		From: win.From, To: win.To, CompanyIDs: ids,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list calendar failed", err)
		return
	}

	jsonio.Write(w, http.StatusOK, calendarResponse{
		From:    win.From.Format(dateLayout),
		To:      win.To.Format(dateLayout),
		Entries: Flatten(companies, win, kind),
	})
}

// intersect narrows filter (nil means unrestricted) to ids. The result is
// never nil, so an empty intersection matches nothing.
func intersect(filter, ids []primitive.ObjectID) []primitive.ObjectID {
	if filter == nil {
		if ids == nil {
			return []primitive.ObjectID{}
		}
		return ids
	}
	keep := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	out := []primitive.ObjectID{}
	for _, id := range filter {
		if keep[id] {
			out = append(out, id)
		}
	}
	return out
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}
