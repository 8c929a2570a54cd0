package discussions

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/placementhub/internal/app/store/audit"
	"github.com/dalemusser/placementhub/internal/app/system/auth"
	"github.com/dalemusser/placementhub/internal/app/system/inputval"
	"github.com/dalemusser/placementhub/internal/app/system/jsonio"
	"github.com/dalemusser/placementhub/internal/app/system/realtime"
	"github.com/dalemusser/placementhub/internal/app/system/timeouts"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxEmojiLength = 16

func roomOf(m models.DiscussionMessage) realtime.Room {
	return realtime.Room{CompanyID: m.CompanyID, Channel: m.Channel}
}

// Reply handles POST /api/discussions/{msgID}/replies.
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "msgID")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid message id")
		return
	}
	var in contentInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode reply failed", err, "Invalid request body.")
		return
	}
	content, err := cleanContent(in.Content)
	if err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}

	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	msg, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "load message failed", err)
		return
	}
	reply, err := h.Store.AddReply(ctx, id, models.Reply{
		AuthorID:   p.ID,
		AuthorName: p.Name,
		Content:    content,
	})
	if err != nil {
		h.storeError(w, r, "add reply failed", err)
		return
	}

	h.Hub.Publish(roomOf(msg), realtime.EventReplyCreated, map[string]any{
		"message_id": id.Hex(),
		"reply":      reply,
	})
	jsonio.Write(w, http.StatusCreated, reply)
}

type reactInput struct {
	Emoji string `json:"emoji"`
}

type reactResponse struct {
	MessageID primitive.ObjectID `json:"message_id"`
	Reactions []models.Reaction  `json:"reactions"`
	Reacted   bool               `json:"reacted"`
}

// React handles POST /api/discussions/{msgID}/reactions. Posting the same
// emoji twice removes the caller's reaction.
func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "msgID")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid message id")
		return
	}
	var in reactInput
	if err := jsonio.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode reaction failed", err, "Invalid request body.")
		return
	}
	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" || utf8.RuneCountInString(emoji) > maxEmojiLength {
		h.ErrLog.BadRequest(w, "emoji is required")
		return
	}

	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	msg, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "load message failed", err)
		return
	}
	reactions, added, err := h.Store.ToggleReaction(ctx, id, emoji, p.ID)
	if err != nil {
		h.storeError(w, r, "toggle reaction failed", err)
		return
	}

	resp := reactResponse{MessageID: id, Reactions: reactions, Reacted: added}
	h.Hub.Publish(roomOf(msg), realtime.EventReactionToggled, resp)
	jsonio.Write(w, http.StatusOK, resp)
}

// Delete handles DELETE /api/discussions/{msgID}. Authors may delete their
// own messages; admins may delete any.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.URLObjectID(r, "msgID")
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid message id")
		return
	}

	p, _ := auth.CurrentPrincipal(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	msg, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.storeError(w, r, "load message failed", err)
		return
	}
	if msg.AuthorID != p.ID && !p.IsAdmin() {
		h.ErrLog.LogForbidden(w, r, "delete of another user's message", "You can only delete your own messages.")
		return
	}
	if err := h.Store.Delete(ctx, id); err != nil {
		h.storeError(w, r, "delete message failed", err)
		return
	}

	if msg.AuthorID != p.ID {
		h.AuditLog.AdminAction(ctx, r, p.ID, audit.EventMessageDeleted, id, map[string]string{
			"company_id": msg.CompanyID.Hex(),
			"channel":    msg.Channel,
			"author_id":  msg.AuthorID.Hex(),
		})
	}
	h.Hub.Publish(roomOf(msg), realtime.EventMessageDeleted, map[string]string{"message_id": id.Hex()})
	w.WriteHeader(http.StatusNoContent)
}
