package discussionstore_test

import (
	"errors"
	"sync"
	"testing"

	discussionstore "github.com/dalemusser/placementhub/internal/app/store/discussions"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/dalemusser/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListChannel_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cid := primitive.NewObjectID()
	var ids []primitive.ObjectID
	for i := 0; i < 5; i++ {
		m, err := store.Create(ctx, models.DiscussionMessage{CompanyID: cid, Channel: models.ChannelGeneral, Content: "hi"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, m.ID)
	}
	_, _ = store.Create(ctx, models.DiscussionMessage{CompanyID: cid, Channel: models.ChannelDoubts, Content: "other channel"})

	page, err := store.ListChannel(ctx, cid, models.ChannelGeneral, nil, 2)
	if err != nil {
		t.Fatalf("ListChannel: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[4] || page[1].ID != ids[3] {
		t.Fatalf("first page wrong: %v", page)
	}

	older, _ := store.ListChannel(ctx, cid, models.ChannelGeneral, &page[1].ID, 10)
	if len(older) != 3 || older[0].ID != ids[2] {
		t.Errorf("second page: got %d messages", len(older))
	}
}

func TestRepliesReactionsDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, _ := store.Create(ctx, models.DiscussionMessage{CompanyID: primitive.NewObjectID(), Channel: models.ChannelGeneral, Content: "q"})
	user := primitive.NewObjectID()

	reply, err := store.AddReply(ctx, m.ID, models.Reply{AuthorID: user, AuthorName: "A", Content: "answer"})
	if err != nil || reply.ID.IsZero() {
		t.Fatalf("AddReply: %v", err)
	}
	if _, err := store.AddReply(ctx, primitive.NewObjectID(), models.Reply{Content: "x"}); !errors.Is(err, discussionstore.ErrNotFound) {
		t.Errorf("AddReply unknown: %v", err)
	}

	reactions, added, err := store.ToggleReaction(ctx, m.ID, "👍", user)
	if err != nil || !added || len(reactions) != 1 {
		t.Fatalf("ToggleReaction add: %v %v %v", reactions, added, err)
	}
	reactions, added, _ = store.ToggleReaction(ctx, m.ID, "👍", user)
	if added || len(reactions) != 0 {
		t.Errorf("ToggleReaction remove: %v %v", reactions, added)
	}

	got, _ := store.GetByID(ctx, m.ID)
	if len(got.Replies) != 1 || len(got.Reactions) != 0 {
		t.Errorf("stored state: replies=%d reactions=%d", len(got.Replies), len(got.Reactions))
	}

	if err := store.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, m.ID); !errors.Is(err, discussionstore.ErrNotFound) {
		t.Errorf("second Delete: %v", err)
	}
}

func TestToggleReaction_ConcurrentUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := store.Create(ctx, models.DiscussionMessage{CompanyID: primitive.NewObjectID(), Channel: models.ChannelGeneral, Content: "Offer letters are out"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const users = 8
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := store.ToggleReaction(ctx, m.ID, "🎉", primitive.NewObjectID()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("ToggleReaction: %v", err)
	}

	got, _ := store.GetByID(ctx, m.ID)
	if len(got.Reactions) != 1 || len(got.Reactions[0].UserIDs) != users {
		t.Errorf("reactions = %+v, want one emoji with %d users", got.Reactions, users)
	}
}

func TestToggleReaction_MissingReactionsField(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := discussionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	if _, err := db.Collection("discussion_messages").InsertOne(ctx, bson.M{
		"_id": id, "company_id": primitive.NewObjectID(), "channel": models.ChannelGeneral, "content": "legacy",
	}); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}

	reactions, added, err := store.ToggleReaction(ctx, id, "👍", primitive.NewObjectID())
	if err != nil || !added || len(reactions) != 1 {
		t.Fatalf("ToggleReaction: %v %v %v", reactions, added, err)
	}
	if _, _, err := store.ToggleReaction(ctx, primitive.NewObjectID(), "👍", primitive.NewObjectID()); !errors.Is(err, discussionstore.ErrNotFound) {
		t.Errorf("unknown message: %v", err)
	}
}
