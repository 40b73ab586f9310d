// Package store defines persistence for the users, bans and licenses
// collections. The record store is external; implementations here are thin
// clients over Firestore or Postgres, plus an in-memory variant for tests
// and local runs.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrAlreadyUsed   = errors.New("store: license already used")
)

// Store groups the per-collection stores.
type Store interface {
	Users(ctx context.Context) UserStore
	Bans(ctx context.Context) BanStore
	IPBans(ctx context.Context) IPBanStore
	Licenses(ctx context.Context) LicenseStore
}

// UserStore reads user records. Creation happens in the sign-up flow, not
// on this surface; only the plan field is written here (license redemption).
type UserStore interface {
	Find(ctx context.Context, uid string) (*User, error)
	// List returns records ordered by creation time. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*User, error)
	SetPlan(ctx context.Context, uid string, plan Plan) error
}

// BanStore appends and lists ban records. Records are never updated.
type BanStore interface {
	Append(ctx context.Context, ban *Ban) error
	List(ctx context.Context, limit int) ([]*Ban, error)
}

// IPBanStore appends and lists address bans.
type IPBanStore interface {
	Append(ctx context.Context, ban *IPBan) error
	List(ctx context.Context, limit int) ([]*IPBan, error)
}

// LicenseStore manages license records keyed by generated license key.
type LicenseStore interface {
	// Create fails with ErrAlreadyExists when the key is taken.
	Create(ctx context.Context, lic *License) error
	Find(ctx context.Context, key string) (*License, error)
	// MarkUsed atomically flips the record to used. ErrAlreadyUsed when the
	// key was consumed before, ErrNotFound when it does not exist.
	MarkUsed(ctx context.Context, key, uid string, at time.Time) error
}
