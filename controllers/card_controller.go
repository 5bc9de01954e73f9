package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"styleswipe_server/models"
	"styleswipe_server/services"
)

// CardController serves the deck pipeline and the catalog behind it.
type CardController struct {
	CardService *services.CardService
}

func NewCardController(service *services.CardService) *CardController {
	return &CardController{CardService: service}
}

func identityFromQuery(r *http.Request) models.Identity {
	q := r.URL.Query()
	return models.Identity{
		UserID:    q.Get("userId"),
		DeviceID:  q.Get("deviceId"),
		SessionID: q.Get("sessionId"),
	}
}

// HandleGetDeck runs the full ranking pipeline for one identity. An empty
// response past the daily cap is expected, not an error.
func (c *CardController) HandleGetDeck(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string `json:"userId"`
		DeviceID string `json:"deviceId"`
		Limit    int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity := models.Identity{UserID: request.UserID, DeviceID: request.DeviceID}
	deck, err := c.CardService.FetchDeck(r.Context(), identity, request.Limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch cards")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cards": deck})
}

// HandleGetLikedCards returns everything the identity has liked, newest first.
func (c *CardController) HandleGetLikedCards(w http.ResponseWriter, r *http.Request) {
	identity := identityFromQuery(r)
	if identity.Key() == "" {
		writeError(w, http.StatusBadRequest, "userId or deviceId is required")
		return
	}

	cards, err := c.CardService.FetchLikedCards(r.Context(), identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch liked cards")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cards": cards})
}

// HandleGetCard returns a single catalog card.
func (c *CardController) HandleGetCard(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("cardId")
	if cardID == "" {
		writeError(w, http.StatusBadRequest, "cardId is required")
		return
	}

	card, err := c.CardService.GetCard(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "Card not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch card")
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// HandleCreateCard authors one catalog card.
func (c *CardController) HandleCreateCard(w http.ResponseWriter, r *http.Request) {
	var card models.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if card.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := c.CardService.CreateCard(r.Context(), card)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create card")
		return
	}

	writeJSON(w, http.StatusOK, created)
}

// HandleImportCards bulk-writes catalog cards.
func (c *CardController) HandleImportCards(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Cards []models.Card `json:"cards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(request.Cards) == 0 {
		writeError(w, http.StatusBadRequest, "cards is required")
		return
	}

	count, err := c.CardService.ImportCards(r.Context(), request.Cards)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to import cards")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "imported": count})
}
