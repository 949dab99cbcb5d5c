package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// LendingRecords returns the lending/borrowing ledger.
func (s *Service) LendingRecords(ctx context.Context) ([]LendingRecord, error) {
	body, err := s.c.CachedRequest(ctx, http.MethodGet, "/lending", nil)
	if err != nil {
		return nil, err
	}
	var out []LendingRecord
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("finance: decode lending records: %w", err)
	}
	return out, nil
}

// CreateLendingRecord opens a new lending or borrowing position.
func (s *Service) CreateLendingRecord(ctx context.Context, rec LendingRecord) (LendingRecord, error) {
	var out LendingRecord
	body, err := s.c.Request(ctx, http.MethodPost, "/lending", map[string]any{
		"counterparty": rec.Counterparty,
		"direction":    rec.Direction,
		"principal":    rec.Principal,
	})
	if err != nil {
		return out, err
	}
	s.c.InvalidatePattern(lendingPattern)
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("finance: decode lending record: %w", err)
	}
	return out, nil
}

// AddRepayment records a partial repayment against the lending record id.
func (s *Service) AddRepayment(ctx context.Context, id string, rep Repayment) (LendingRecord, error) {
	var out LendingRecord
	body, err := s.c.Request(ctx, http.MethodPost, "/lending/"+id+"/repayments", map[string]any{
		"amount": rep.Amount,
		"date":   rep.Date,
	})
	if err != nil {
		return out, err
	}
	s.c.InvalidatePattern(lendingPattern)
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("finance: decode repayment response: %w", err)
	}
	return out, nil
}

// DeleteLendingRecord removes a settled or mistaken lending record.
func (s *Service) DeleteLendingRecord(ctx context.Context, id string) error {
	if _, err := s.c.Request(ctx, http.MethodDelete, "/lending/"+id, nil); err != nil {
		return err
	}
	s.c.InvalidatePattern(lendingPattern)
	return nil
}
