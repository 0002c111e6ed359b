package rest

import (
	"encoding/json"
	"net/http"
)

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong response", "error", err)
	}
}

// resultsHandler returns the recorded game history for one room,
// newest first.
func (that *Server) resultsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "resultsHandler")

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if that.results == nil {
		http.Error(w, "game history is disabled", http.StatusNotFound)
		return
	}

	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		http.Error(w, "room query parameter is required", http.StatusBadRequest)
		return
	}

	results, err := that.results.ListByRoom(r.Context(), roomID)
	if err != nil {
		log.Error("failed to list results", "roomID", roomID, "error", err)
		http.Error(w, "failed to list results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err = json.NewEncoder(w).Encode(results); err != nil {
		log.Error("failed to encode results", "roomID", roomID, "error", err)
	}
}
