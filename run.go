package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord is what a finished search persists and publishes.
type RunRecord struct {
	ID          string     `json:"id"`
	Fingerprint string     `json:"fingerprint"`
	Source      string     `json:"source,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Config      Config     `json:"config"`
	Result      ResultView `json:"result"`
}

func NewRunRecord(source string, store *TicketStore, cfg Config, res *SearchResult) *RunRecord {
	return &RunRecord{
		ID:          uuid.NewString(),
		Fingerprint: fmt.Sprintf("%016x", store.Fingerprint()),
		Source:      source,
		CreatedAt:   time.Now().UTC(),
		Config:      cfg,
		Result:      NewResultView(res, store.Len()),
	}
}

func runSearch(ctx context.Context, store *TicketStore, cfg Config) (*SearchResult, error) {
	opt, err := NewOptimizer(store, cfg)
	if err != nil {
		return nil, err
	}
	return opt.Optimize(ctx)
}
