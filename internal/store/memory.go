// Package store provides an in-memory implementation of the persistence
// ports. A relational store can replace it behind the same interfaces.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ledgerline/statement-recon/internal/models"
)

// Memory is an in-memory transaction repository and fiscal period catalog.
// Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	txns    []models.BankTransaction
	periods map[string][]models.FiscalPeriod
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{periods: make(map[string][]models.FiscalPeriod)}
}

// SaveBatch persists all rows or none: every row is validated up front, so
// a bad row fails the batch before anything becomes visible to readers.
func (m *Memory) SaveBatch(ctx context.Context, txns []models.BankTransaction) error {
	for i := range txns {
		if err := txns[i].Validate(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = append(m.txns, txns...)
	return nil
}

// FindByCompanyAndPeriod returns copies of the matching rows.
func (m *Memory) FindByCompanyAndPeriod(ctx context.Context, companyID string, periodID uuid.UUID) ([]models.BankTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.BankTransaction{}
	for i := range m.txns {
		if m.txns[i].CompanyID == companyID && m.txns[i].FiscalPeriodID == periodID {
			out = append(out, m.txns[i])
		}
	}
	return out, nil
}

// Reset removes every transaction for the company and period. This is the
// only deletion path; imports are append-only otherwise.
func (m *Memory) Reset(ctx context.Context, companyID string, periodID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.txns[:0]
	for i := range m.txns {
		if m.txns[i].CompanyID != companyID || m.txns[i].FiscalPeriodID != periodID {
			kept = append(kept, m.txns[i])
		}
	}
	m.txns = kept
	return nil
}

// AddPeriod registers a fiscal period for a company.
func (m *Memory) AddPeriod(p models.FiscalPeriod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[p.CompanyID] = append(m.periods[p.CompanyID], p)
}

// ListPeriods returns the company's fiscal periods.
func (m *Memory) ListPeriods(ctx context.Context, companyID string) ([]models.FiscalPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.FiscalPeriod, len(m.periods[companyID]))
	copy(out, m.periods[companyID])
	return out, nil
}
