// Package store owns the per-phone user cache: one durable record per
// phone number with last-write-wins semantics, fronted by a Redis read
// cache. Contention is per key; there are no cross-record transactions.
package store

import (
	"context"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
)

// UserStore is the cache of negotiation state keyed by phone number.
// Get returns (nil, nil) when no record exists; a missing record routes
// the caller to the live pipeline.
type UserStore interface {
	Get(ctx context.Context, phone string) (*models.UserRecord, error)
	Upsert(ctx context.Context, record *models.UserRecord) error
	Clear(ctx context.Context) error
}
