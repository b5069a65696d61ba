package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/ibgate/ibgate/internal/venue"
)

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	positions, err := s.portfolio.Positions(r.Context())
	if err != nil {
		writeError(w, portfolioStatusCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": positions})
}

func (s *Server) handleAccountSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.portfolio.AccountSummary(r.Context())
	if err != nil {
		writeError(w, portfolioStatusCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// portfolioStatusCode: disconnected reads are a client-state problem (400),
// everything else is an upstream failure (500).
func portfolioStatusCode(err error) int {
	if errors.Is(err, venue.ErrNotConnected) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
