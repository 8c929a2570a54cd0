package calendar

import (
	"sort"
	"time"

	"github.com/dalemusser/placementhub/internal/domain/models"
)

// KindDeadline marks an application deadline entry.
const KindDeadline = "deadline"

// Entry is one item on the placement calendar.
type Entry struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	CompanyName string     `json:"company_name"`
	Title       string     `json:"title"`
	Kind        string     `json:"kind"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Location    string     `json:"location,omitempty"`
	Link        string     `json:"link,omitempty"`
}

// Window is a half-open time range [From, To).
type Window struct {
	From, To time.Time
}

func (w Window) contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// Flatten turns companies into calendar entries inside win, sorted by start
// time. An empty kind keeps everything; KindDeadline keeps only deadlines;
// any other kind keeps events of that kind.
func Flatten(companies []models.Company, win Window, kind string) []Entry {
	out := []Entry{}
	for _, c := range companies {
		if c.ApplyDeadline != nil && (kind == "" || kind == KindDeadline) && win.contains(*c.ApplyDeadline) {
			out = append(out, Entry{
				ID:          "deadline-" + c.ID.Hex(),
				CompanyID:   c.ID.Hex(),
				CompanyName: c.Name,
				Title:       c.Name + " application deadline",
				Kind:        KindDeadline,
				Start:       c.ApplyDeadline.UTC(),
			})
		}
		if kind == KindDeadline {
			continue
		}
		for _, ev := range c.Events {
			if kind != "" && ev.Kind != kind {
				continue
			}
			if !win.contains(ev.StartsAt) {
				continue
			}
			out = append(out, Entry{
				ID:          ev.ID.Hex(),
				CompanyID:   c.ID.Hex(),
				CompanyName: c.Name,
				Title:       ev.Title,
				Kind:        ev.Kind,
				Start:       ev.StartsAt.UTC(),
				End:         ev.EndsAt,
				Location:    ev.Location,
				Link:        ev.Link,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].CompanyName < out[j].CompanyName
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// MonthOf returns the calendar month containing t, in UTC.
func MonthOf(t time.Time) Window {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{From: from, To: from.AddDate(0, 1, 0)}
}
