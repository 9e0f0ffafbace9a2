package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/feed-service/internal/repository/postgres"
)

// ledger is a set of relation rows keyed by K with toggle semantics.
type ledger[K any] interface {
	Exists(ctx context.Context, key K) (bool, error)
	Insert(ctx context.Context, key K) error
	Delete(ctx context.Context, key K) error
}

type toggleOutcome struct {
	// Active is the state of the relation after the call.
	Active bool
	// Created is true only when this call inserted the row.
	Created bool
}

// toggle removes key when present and inserts it otherwise. A concurrent
// identical insert that loses on the unique constraint is reported as active
// without Created, so the caller emits no event for it.
func toggle[K any](ctx context.Context, l ledger[K], key K) (toggleOutcome, error) {
	exists, err := l.Exists(ctx, key)
	if err != nil {
		return toggleOutcome{}, err
	}

	if exists {
		if err := l.Delete(ctx, key); err != nil {
			return toggleOutcome{}, err
		}
		return toggleOutcome{Active: false}, nil
	}

	if err := l.Insert(ctx, key); err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			return toggleOutcome{Active: true}, nil
		}
		return toggleOutcome{}, err
	}

	return toggleOutcome{Active: true, Created: true}, nil
}
