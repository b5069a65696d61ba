package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/ibgate/ibgate/internal/domain"
)

// handleTrade submits one order. Validation failures and a disconnected
// session answer 400 with a TradeResult body; venue rejections and ack
// timeouts stay in-band as 200 + success=false, so clients read the outcome
// from the body rather than the status code.
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if !s.sessions.Status().Connected {
		writeJSON(w, http.StatusBadRequest,
			req.failure("Not connected to the brokerage endpoint. Connect first."))
		return
	}

	inst, spec, err := req.Build()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, req.failure(validationMessage(req, err)))
		return
	}

	result := s.trading.Submit(r.Context(), inst, spec)
	if !result.Success {
		log.Warnf("trade failed: %s %v %s: %s", req.Action, req.Quantity, req.Symbol, result.Message)
	}
	writeJSON(w, http.StatusOK, result)
}

func validationMessage(req TradeRequest, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInstrument):
		return "Symbol is required"
	case req.OrderType == string(domain.KindLimit) && req.LimitPrice == nil:
		return "Limit price required for limit orders"
	default:
		return err.Error()
	}
}
