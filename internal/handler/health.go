package handler

import "net/http"

// handleHealth reports liveness. It deliberately checks nothing downstream:
// a database outage should surface as failing requests, not a flapping
// health probe that gets the whole process restarted.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
