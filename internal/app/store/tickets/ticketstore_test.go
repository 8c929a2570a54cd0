package ticketstore_test

import (
	"errors"
	"testing"

	ticketstore "github.com/dalemusser/placementhub/internal/app/store/tickets"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_SequentialPerKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sid := primitive.NewObjectID()
	want := []string{"TKT-000001", "TKT-000002", "TKT-000003"}
	for _, w := range want {
		tk, err := store.Create(ctx, models.Ticket{Kind: models.TicketSupport, StudentID: sid, Subject: "s", Description: "d"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if tk.TicketNumber != w {
			t.Errorf("number = %s, want %s", tk.TicketNumber, w)
		}
		if tk.Status != models.TicketOpen || tk.Priority != models.PriorityMedium {
			t.Errorf("defaults not applied: %+v", tk)
		}
	}

	bug, _ := store.Create(ctx, models.Ticket{Kind: models.TicketBug, StudentID: sid, Subject: "s", Description: "d"})
	if bug.TicketNumber != "BUG-000001" {
		t.Errorf("bug numbering not independent: %s", bug.TicketNumber)
	}

	if _, err := store.Create(ctx, models.Ticket{Kind: "complaint"}); !errors.Is(err, ticketstore.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestListAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mine, other := primitive.NewObjectID(), primitive.NewObjectID()
	tk, _ := store.Create(ctx, models.Ticket{Kind: models.TicketHelp, StudentID: mine, Subject: "a", Description: "d"})
	_, _ = store.Create(ctx, models.Ticket{Kind: models.TicketHelp, StudentID: other, Subject: "b", Description: "d"})

	list, err := store.ListByStudent(ctx, models.TicketHelp, mine)
	if err != nil || len(list) != 1 || list[0].TicketNumber != tk.TicketNumber {
		t.Fatalf("ListByStudent: %v %v", list, err)
	}

	resolved := models.TicketResolved
	got, err := store.Update(ctx, models.TicketHelp, tk.TicketNumber, ticketstore.Update{
		Status:   &resolved,
		Response: &models.TicketResponse{AuthorName: "Office", Message: "Done"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != resolved || got.ResolvedAt == nil || len(got.Responses) != 1 {
		t.Errorf("update not applied: %+v", got)
	}

	open, _ := store.List(ctx, models.TicketHelp, models.TicketOpen)
	if len(open) != 1 {
		t.Errorf("expected 1 open ticket, got %d", len(open))
	}

	if _, err := store.GetByNumber(ctx, models.TicketHelp, "HELP-999999"); !errors.Is(err, ticketstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
