// Package finance exposes the FinBook API operations as a typed client. All
// reads flow through the caching and coordination layers; mutations go around
// the cache and invalidate the key families their results affect.
package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	finbook "github.com/finbook/finbook-go"
	"github.com/finbook/finbook-go/userscope"
)

// Invalidation patterns for families of cached reads. A transaction mutation
// dirties the transaction lists, the monthly summaries and the month index;
// a lending mutation only dirties the lending ledger.
var (
	transactionPattern = regexp.MustCompile(`/(transactions|summary|months)`)
	lendingPattern     = regexp.MustCompile(`/lending`)
)

// Service is the typed surface of the finance API.
type Service struct {
	c *finbook.Client
}

// NewService creates a Service over c.
func NewService(c *finbook.Client) *Service {
	return &Service{c: c}
}

// Transactions returns the transactions recorded in monthYear (YYYY-MM).
func (s *Service) Transactions(ctx context.Context, monthYear string) ([]Transaction, error) {
	body, err := s.c.CachedRequest(ctx, http.MethodGet, "/transactions",
		map[string]any{"monthYear": monthYear})
	if err != nil {
		return nil, err
	}
	var out []Transaction
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("finance: decode transactions: %w", err)
	}
	return out, nil
}

// MonthlySummary returns the aggregate for one month. Widgets asking for the
// same month within the batching window coalesce into one call, which itself
// is cached and deduplicated.
func (s *Service) MonthlySummary(ctx context.Context, monthYear string) (MonthlySummary, error) {
	var out MonthlySummary
	body, err := s.c.BatchRequest(ctx, userscope.SummaryKey(monthYear), func(ctx context.Context) ([]byte, error) {
		return s.c.CachedRequest(ctx, http.MethodGet, "/summary",
			map[string]any{"monthYear": monthYear})
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("finance: decode summary: %w", err)
	}
	return out, nil
}

// AvailableMonths returns the months that have any recorded data.
func (s *Service) AvailableMonths(ctx context.Context) ([]string, error) {
	body, err := s.c.CachedRequest(ctx, http.MethodGet, "/months", nil)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("finance: decode months: %w", err)
	}
	return out, nil
}

// RunningBalance fetches the summary of each month in order and accumulates
// the balance across them. Months are fetched sequentially because each point
// depends on the previous total; individual fetches still benefit from the
// cache and the deduplicator.
func (s *Service) RunningBalance(ctx context.Context, months []string) ([]BalancePoint, error) {
	points := make([]BalancePoint, 0, len(months))
	var running float64
	for _, m := range months {
		sum, err := s.MonthlySummary(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("finance: summary for %s: %w", m, err)
		}
		running += sum.Balance
		points = append(points, BalancePoint{MonthYear: m, Balance: sum.Balance, Running: running})
	}
	return points, nil
}

// CreateTransaction records a new transaction and invalidates every cached
// read the new entry could affect.
func (s *Service) CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	var out Transaction
	body, err := s.c.Request(ctx, http.MethodPost, "/transactions", map[string]any{
		"amount":      tx.Amount,
		"type":        tx.Type,
		"category":    tx.Category,
		"description": tx.Description,
		"date":        tx.Date,
		"monthYear":   tx.MonthYear,
	})
	if err != nil {
		return out, err
	}
	s.c.InvalidatePattern(transactionPattern)
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("finance: decode created transaction: %w", err)
	}
	return out, nil
}

// UpdateTransaction replaces the stored fields of tx.ID and invalidates the
// affected read families.
func (s *Service) UpdateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	var out Transaction
	body, err := s.c.Request(ctx, http.MethodPut, "/transactions/"+tx.ID, map[string]any{
		"amount":      tx.Amount,
		"type":        tx.Type,
		"category":    tx.Category,
		"description": tx.Description,
		"date":        tx.Date,
		"monthYear":   tx.MonthYear,
	})
	if err != nil {
		return out, err
	}
	s.c.InvalidatePattern(transactionPattern)
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("finance: decode updated transaction: %w", err)
	}
	return out, nil
}

// DeleteTransaction removes a transaction and invalidates the affected read
// families.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := s.c.Request(ctx, http.MethodDelete, "/transactions/"+id, nil); err != nil {
		return err
	}
	s.c.InvalidatePattern(transactionPattern)
	return nil
}

// Login authenticates against the API and switches the client's cache
// namespace to the signed-in user.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	var u User
	body, err := s.c.Request(ctx, http.MethodPost, "/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return u, err
	}
	if err := json.Unmarshal(body, &u); err != nil {
		return u, fmt.Errorf("finance: decode login response: %w", err)
	}
	s.c.SetUserSession(u.ID)
	return u, nil
}

// Logout ends the session server-side and evicts the user's cached data. The
// local session is cleared even when the logout call itself fails.
func (s *Service) Logout(ctx context.Context) error {
	_, err := s.c.Request(ctx, http.MethodPost, "/auth/logout", nil)
	s.c.ClearSession()
	return err
}
