package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth is the only route served without authentication.
func (e *Env) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
		log.Error().Err(err).Msg("could not write health response")
	}
}
