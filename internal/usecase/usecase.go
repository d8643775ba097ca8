// Package usecase implements the redirect registry: claiming short paths,
// probing their availability and resolving them with an access-count bump.
//
// The registry holds no state of its own. Every operation re-reads within the
// storage layer's own transaction, so it is safe to call concurrently from any
// number of handlers or processes.
package usecase

import (
	"context"
	"fmt"

	"golinks/internal/entity"
)

type redirectRepository interface {
	Save(ctx context.Context, shortPath, destination, ownerID, label string) (*entity.Redirect, error)
	Exists(ctx context.Context, shortPath string) (bool, error)
	RetrieveByShortPath(ctx context.Context, shortPath string) (*entity.Redirect, error)
	RetrieveAndBumpAccess(ctx context.Context, shortPath string) (*entity.Redirect, error)
}

type RedirectRegistry struct {
	redirectRepo redirectRepository
}

func New(redirectRepo redirectRepository) *RedirectRegistry {
	return &RedirectRegistry{
		redirectRepo: redirectRepo,
	}
}

// Register claims shortPath for destination on behalf of caller. The claim is
// atomic: of two concurrent registrations for the same path exactly one
// succeeds and the other observes entity.ErrShortPathExists. Validation runs
// before any storage call.
func (r *RedirectRegistry) Register(ctx context.Context, caller, shortPath, destination, label string) (*entity.Redirect, error) {
	const op = "usecase.RedirectRegistry.Register"

	if shortPath == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrEmptyShortPath)
	}
	if destination == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrEmptyDestination)
	}
	if caller == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrMissingCaller)
	}

	redirect, err := r.redirectRepo.Save(ctx, shortPath, destination, caller, label)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to claim short path: %w", op, err)
	}

	return redirect, nil
}

// CheckAvailability reports whether shortPath is already claimed. This is an
// advisory probe, not a reservation: a positive answer can be stale by the
// time the caller acts on it.
func (r *RedirectRegistry) CheckAvailability(ctx context.Context, shortPath string) (bool, error) {
	const op = "usecase.RedirectRegistry.CheckAvailability"

	if shortPath == "" {
		return false, fmt.Errorf("%s: %w", op, entity.ErrEmptyShortPath)
	}

	exists, err := r.redirectRepo.Exists(ctx, shortPath)
	if err != nil {
		return false, fmt.Errorf("%s: failed to check short path: %w", op, err)
	}

	return exists, nil
}

// Resolve looks up shortPath and bumps its access count in a single atomic
// step. An unknown path yields entity.ErrRedirectNotFound and leaves no trace.
func (r *RedirectRegistry) Resolve(ctx context.Context, shortPath string) (*entity.Redirect, error) {
	const op = "usecase.RedirectRegistry.Resolve"

	if shortPath == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrEmptyShortPath)
	}

	redirect, err := r.redirectRepo.RetrieveAndBumpAccess(ctx, shortPath)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short path: %w", op, err)
	}

	return redirect, nil
}

// Stats returns the record for shortPath without touching its counter.
func (r *RedirectRegistry) Stats(ctx context.Context, shortPath string) (*entity.Redirect, error) {
	const op = "usecase.RedirectRegistry.Stats"

	if shortPath == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrEmptyShortPath)
	}

	redirect, err := r.redirectRepo.RetrieveByShortPath(ctx, shortPath)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get redirect stats: %w", op, err)
	}

	return redirect, nil
}
