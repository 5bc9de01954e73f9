package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"styleswipe_server/services"
)

// SessionController exposes the session lifecycle: start a browsing session,
// swipe through the server-held stack, read it back, end it.
type SessionController struct {
	SessionService *services.SessionService
}

func NewSessionController(service *services.SessionService) *SessionController {
	return &SessionController{SessionService: service}
}

// HandleStartSession mints the identity triple and deals the initial deck.
// Returning clients replay their durable userId to keep their history.
func (c *SessionController) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, deck, err := c.SessionService.StartSession(r.Context(), request.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"identity": identity,
		"deck":     deck,
	})
}

// HandleSwipe records one decision and reports what it triggered.
func (c *SessionController) HandleSwipe(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SessionID string `json:"sessionId"`
		CardID    string `json:"cardId"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.SessionID == "" || request.CardID == "" {
		writeError(w, http.StatusBadRequest, "sessionId and cardId are required")
		return
	}

	outcome, err := c.SessionService.Swipe(r.Context(), request.SessionID, request.CardID, request.Direction)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record swipe")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// HandleGetStack returns the session's remaining unseen cards.
func (c *SessionController) HandleGetStack(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	stack, err := c.SessionService.GetStack(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"stack": stack})
}

// HandleEndSession drops the session state.
func (c *SessionController) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c.SessionService.EndSession(request.SessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
