package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ibgate/ibgate/internal/domain"
	"github.com/ibgate/ibgate/internal/metrics"
	"github.com/ibgate/ibgate/internal/session"
	"github.com/ibgate/ibgate/internal/venue"
	"github.com/ibgate/ibgate/pkg/cache"
)

var portfolioLog = logrus.WithField("component", "portfolio_service")

// summaryTTL bounds how long an account summary may be served from memory.
// Account values move slowly; positions are always read through.
const summaryTTL = 2 * time.Second

// PortfolioService reads positions and account values from the live
// session, reshaping venue-native records into the API's flat shapes.
type PortfolioService struct {
	sessions *session.Manager
	summary  *cache.TTL[string, map[string]map[string]any]
}

// NewPortfolioService creates a portfolio service bound to the session manager.
func NewPortfolioService(sessions *session.Manager) *PortfolioService {
	return &PortfolioService{
		sessions: sessions,
		summary:  cache.NewTTL[string, map[string]map[string]any](summaryTTL),
	}
}

// Positions returns all current holdings. An account with no holdings is an
// empty slice, not an error. Fails with ErrNotConnected while disconnected.
func (s *PortfolioService) Positions(ctx context.Context) ([]domain.Position, error) {
	v := s.sessions.Venue()
	if !v.IsConnected() {
		return nil, venue.ErrNotConnected
	}
	positions, err := v.Positions(ctx)
	if err != nil {
		return nil, err
	}
	if positions == nil {
		positions = []domain.Position{}
	}
	metrics.PortfolioReads.Add(1)
	portfolioLog.Debugf("fetched %d positions", len(positions))
	return positions, nil
}

// AccountSummary restructures the venue's account-summary rows into a
// tag -> currency -> value mapping. Numeric-looking values become float64,
// everything else stays a string.
func (s *PortfolioService) AccountSummary(ctx context.Context) (map[string]map[string]any, error) {
	v := s.sessions.Venue()
	if !v.IsConnected() {
		return nil, venue.ErrNotConnected
	}
	if cached, ok := s.summary.Get("summary"); ok {
		return cached, nil
	}
	rows, err := v.AccountSummary(ctx)
	if err != nil {
		return nil, err
	}

	summary := make(map[string]map[string]any, len(rows))
	for _, row := range rows {
		byCurrency, ok := summary[row.Tag]
		if !ok {
			byCurrency = make(map[string]any)
			summary[row.Tag] = byCurrency
		}
		if f, ok := coerceNumeric(row.Value); ok {
			byCurrency[row.Currency] = f
		} else {
			byCurrency[row.Currency] = row.Value
		}
	}
	s.summary.Set("summary", summary, 0)
	metrics.SummaryReads.Add(1)
	return summary, nil
}

// coerceNumeric converts a value that looks like an unsigned decimal number
// (digits with at most one decimal point) to float64. Anything else, "N/A"
// included, is left for the caller to keep as text.
func coerceNumeric(value string) (float64, bool) {
	if value == "" || strings.Count(value, ".") > 1 {
		return 0, false
	}
	stripped := strings.Replace(value, ".", "", 1)
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	if stripped == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}
