package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// writeJSON serializes v with the given status. Encoding failures at this
// point cannot be reported to the client anymore; they surface in the
// request log via the 500 fallback.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields so a
// typoed field name fails loudly instead of being silently dropped.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
