package server

import (
	"net/http"
)

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	status, err := s.sessions.Connect(r.Context())
	if err != nil {
		// Transport-level connect failure: structured status with a 500.
		writeJSON(w, http.StatusInternalServerError, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Disconnect())
}

func (s *Server) handleConnectionStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Status())
}
