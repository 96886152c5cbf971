// Package planner implements the human-facing todo, note and folder
// operations.
//
// Every mutation runs the ownership guard first and returns typed errors
// from package model; callers that need error-as-data (the agent tool
// layer) convert them at their own boundary. Mutations that can change a
// date's completion picture recompute the streak in the same transaction.
package planner

import (
	"context"
	"log"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/daylog-app/daylog/internal/model"
	"github.com/daylog-app/daylog/internal/store"
	"github.com/daylog-app/daylog/internal/streak"
)

// DefaultMaxConcurrency bounds per-item goroutines in batch operations.
const DefaultMaxConcurrency = 8

// Service is the planner. It holds no mutable state of its own.
type Service struct {
	store          *store.Store
	streaks        *streak.Engine
	maxConcurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithMaxConcurrency bounds the goroutines a batch operation fans out to.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// New creates a planner Service.
func New(s *store.Store, e *streak.Engine, opts ...Option) *Service {
	svc := &Service{store: s, streaks: e, maxConcurrency: DefaultMaxConcurrency}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// Streaks exposes the engine the service recomputes with.
func (s *Service) Streaks() *streak.Engine { return s.streaks }

// fanOut runs fn for every id on a bounded pool and returns how many calls
// reported success. A failing item never stops its siblings.
func (s *Service) fanOut(ids []string, fn func(id string) bool) int {
	p := pool.NewWithResults[bool]().WithMaxGoroutines(s.maxConcurrency)
	for _, id := range ids {
		p.Go(func() bool { return fn(id) })
	}
	n := 0
	for _, ok := range p.Wait() {
		if ok {
			n++
		}
	}
	return n
}

// recomputeDates re-derives the streak contribution of each distinct,
// non-empty date using tx.
func (s *Service) recomputeDates(ctx context.Context, tx *store.Store, ownerID string, dates ...model.Date) error {
	seen := make(map[model.Date]bool, len(dates))
	for _, d := range dates {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		if _, err := s.streaks.RecomputeIn(ctx, tx, ownerID, d); err != nil {
			return err
		}
	}
	return nil
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return model.Invalid("owner_id", "must not be empty")
	}
	return nil
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", model.Invalid(field, "must not be empty")
	}
	return v, nil
}

// dedupe drops empty and repeated ids, keeping first occurrences.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func warnf(format string, args ...any) {
	log.Printf("WARNING: planner: "+format, args...)
}
