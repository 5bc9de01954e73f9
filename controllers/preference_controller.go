package controllers

import (
	"encoding/json"
	"net/http"

	"styleswipe_server/models"
	"styleswipe_server/services"
)

// PreferenceController reads and (re)builds the stored taste analysis.
type PreferenceController struct {
	PreferenceService *services.PreferenceService
}

func NewPreferenceController(service *services.PreferenceService) *PreferenceController {
	return &PreferenceController{PreferenceService: service}
}

// HandleGetPreference returns the stored preference for an identity, or an
// empty object when none exists yet.
func (c *PreferenceController) HandleGetPreference(w http.ResponseWriter, r *http.Request) {
	identity := identityFromQuery(r)
	if identity.Key() == "" {
		writeError(w, http.StatusBadRequest, "userId or deviceId is required")
		return
	}

	pref, err := c.PreferenceService.FetchUserPreference(r.Context(), identity.UserID, identity.DeviceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch preference")
		return
	}
	if pref == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"preference": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"preference": pref,
		"tags":       services.ExtractPreferenceTags(pref.PreferenceText),
	})
}

// HandleAnalyze runs the analysis on demand. An empty preference in the
// response means the identity did not qualify (first analysis needs exactly
// the configured number of swipes).
func (c *PreferenceController) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string `json:"userId"`
		DeviceID  string `json:"deviceId"`
		Reanalyze bool   `json:"reanalyze"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity := models.Identity{UserID: request.UserID, DeviceID: request.DeviceID}
	preference, err := c.PreferenceService.AnalyzeFromSwipes(r.Context(), identity, request.Reanalyze)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to analyze preference")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"preference": preference})
}
