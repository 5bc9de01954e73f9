package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"styleswipe_server/models"
	"styleswipe_server/services"
)

// CommentController covers card comments, reactions, and the per-card tally.
type CommentController struct {
	CommentService *services.CommentService
	StatsService   *services.StatsService
}

func NewCommentController(comments *services.CommentService, stats *services.StatsService) *CommentController {
	return &CommentController{CommentService: comments, StatsService: stats}
}

func identityFromRequest(userID, deviceID, sessionID string) models.Identity {
	return models.Identity{UserID: userID, DeviceID: deviceID, SessionID: sessionID}
}

// HandleAddComment stores one comment on a card.
func (c *CommentController) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string `json:"userId"`
		DeviceID string `json:"deviceId"`
		CardID   string `json:"cardId"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.CardID == "" || request.Content == "" {
		writeError(w, http.StatusBadRequest, "cardId and content are required")
		return
	}

	identity := identityFromRequest(request.UserID, request.DeviceID, "")
	comment, err := c.CommentService.AddComment(r.Context(), identity, request.CardID, request.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// HandleGetComments lists a card's comments with the caller's own reactions.
func (c *CommentController) HandleGetComments(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("cardId")
	if cardID == "" {
		writeError(w, http.StatusBadRequest, "cardId is required")
		return
	}

	identity := identityFromQuery(r)
	comments, err := c.CommentService.GetCommentsByCard(r.Context(), identity, cardID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// HandleGetUserComments lists everything the identity has written.
func (c *CommentController) HandleGetUserComments(w http.ResponseWriter, r *http.Request) {
	identity := identityFromQuery(r)
	if identity.Key() == "" {
		writeError(w, http.StatusBadRequest, "userId or deviceId is required")
		return
	}

	comments, err := c.CommentService.GetUserComments(r.Context(), identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch user comments")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// HandleReactToComment upserts one like/nope reaction.
func (c *CommentController) HandleReactToComment(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string `json:"userId"`
		DeviceID  string `json:"deviceId"`
		CardID    string `json:"cardId"`
		CommentID string `json:"commentId"`
		Reaction  string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity := identityFromRequest(request.UserID, request.DeviceID, "")
	if err := c.CommentService.ReactToComment(r.Context(), identity, request.CardID, request.CommentID, request.Reaction); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to react to comment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleDeleteComment removes one of the caller's own comments.
func (c *CommentController) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string `json:"userId"`
		DeviceID  string `json:"deviceId"`
		CardID    string `json:"cardId"`
		CommentID string `json:"commentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity := identityFromRequest(request.UserID, request.DeviceID, "")
	if err := c.CommentService.DeleteComment(r.Context(), identity, request.CardID, request.CommentID); err != nil {
		if errors.Is(err, services.ErrNotCommentOwner) {
			writeError(w, http.StatusForbidden, "Comment does not belong to this user")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleGetCardStats returns the like/nope/comment tally for one card.
func (c *CommentController) HandleGetCardStats(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("cardId")
	if cardID == "" {
		writeError(w, http.StatusBadRequest, "cardId is required")
		return
	}

	stats, err := c.StatsService.FetchCardStats(r.Context(), cardID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch card stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
