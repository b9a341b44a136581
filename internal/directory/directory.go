// Package directory resolves which debtor a phone number belongs to.
// Core logic depends only on the interface; the seed map backs tests and
// development, Mongo backs production.
package directory

import (
	"context"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
)

// Entry is one phone→debtor mapping.
type Entry struct {
	Phone    string `bson:"phone" json:"phone"`
	Document string `bson:"document" json:"document"`
	Name     string `bson:"name,omitempty" json:"name,omitempty"`
}

// UserDirectory looks up the document on file for a phone number.
// Lookup fails with models.ErrUserNotFound when the phone is unknown.
type UserDirectory interface {
	Lookup(ctx context.Context, phone string) (*Entry, error)
	All(ctx context.Context) ([]Entry, error)
}

// Static is an in-memory directory seeded at construction.
type Static struct {
	entries map[string]Entry
	order   []string
}

// NewStatic builds a directory from seed entries. Later duplicates of the
// same phone overwrite earlier ones.
func NewStatic(entries []Entry) *Static {
	s := &Static{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if _, seen := s.entries[e.Phone]; !seen {
			s.order = append(s.order, e.Phone)
		}
		s.entries[e.Phone] = e
	}
	return s
}

// Lookup implements UserDirectory.
func (s *Static) Lookup(_ context.Context, phone string) (*Entry, error) {
	e, ok := s.entries[phone]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &e, nil
}

// All returns every entry in insertion order.
func (s *Static) All(_ context.Context) ([]Entry, error) {
	out := make([]Entry, 0, len(s.order))
	for _, phone := range s.order {
		out = append(out, s.entries[phone])
	}
	return out, nil
}
