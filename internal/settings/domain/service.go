package domain

import (
	"context"
	"errors"
)

// Resolver loads auction configuration snapshots.
type Resolver interface {
	// Resolve returns the configuration for a pair or ErrSettingsNotFound
	// for an unknown locale/placement combination.
	Resolve(ctx context.Context, locale, placement string) (Snapshot, error)

	// ListEnabled returns the snapshots of every enabled pair, for the
	// scheduler to iterate.
	ListEnabled(ctx context.Context) ([]Snapshot, error)

	// Upsert creates or replaces a pair's configuration.
	Upsert(ctx context.Context, settings AuctionSettings) error
}

var (
	ErrSettingsNotFound = errors.New("settings_not_found")
	ErrInvalidSettings  = errors.New("invalid_settings")
)
