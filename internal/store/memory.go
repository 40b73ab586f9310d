package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemory implements Store with in-process concurrency safety. Tests and
// credential-less local runs use it.
type InMemory struct {
	mu       sync.RWMutex
	users    map[string]*User
	bans     []*Ban
	ipBans   []*IPBan
	licenses map[string]*License
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		users:    make(map[string]*User),
		licenses: make(map[string]*License),
	}
}

func (s *InMemory) Users(ctx context.Context) UserStore       { return (*memUsers)(s) }
func (s *InMemory) Bans(ctx context.Context) BanStore         { return (*memBans)(s) }
func (s *InMemory) IPBans(ctx context.Context) IPBanStore     { return (*memIPBans)(s) }
func (s *InMemory) Licenses(ctx context.Context) LicenseStore { return (*memLicenses)(s) }

// PutUser seeds a user record; not part of the Store contract.
func (s *InMemory) PutUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.UID] = &cp
}

type memUsers InMemory

func (s *memUsers) Find(ctx context.Context, uid string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[uid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUsers) List(ctx context.Context, limit int) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].UID < out[j].UID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memUsers) SetPlan(ctx context.Context, uid string, plan Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return ErrNotFound
	}
	u.Plan = plan
	return nil
}

type memBans InMemory

func (s *memBans) Append(ctx context.Context, ban *Ban) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ban
	s.bans = append(s.bans, &cp)
	return nil
}

func (s *memBans) List(ctx context.Context, limit int) ([]*Ban, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Ban, 0, len(s.bans))
	for _, b := range s.bans {
		cp := *b
		out = append(out, &cp)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memIPBans InMemory

func (s *memIPBans) Append(ctx context.Context, ban *IPBan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ban
	s.ipBans = append(s.ipBans, &cp)
	return nil
}

func (s *memIPBans) List(ctx context.Context, limit int) ([]*IPBan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*IPBan, 0, len(s.ipBans))
	for _, b := range s.ipBans {
		cp := *b
		out = append(out, &cp)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memLicenses InMemory

func (s *memLicenses) Create(ctx context.Context, lic *License) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.licenses[lic.Key]; ok {
		return ErrAlreadyExists
	}
	cp := *lic
	s.licenses[lic.Key] = &cp
	return nil
}

func (s *memLicenses) Find(ctx context.Context, key string) (*License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lic, ok := s.licenses[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *lic
	return &cp, nil
}

func (s *memLicenses) MarkUsed(ctx context.Context, key, uid string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lic, ok := s.licenses[key]
	if !ok {
		return ErrNotFound
	}
	if lic.Used {
		return ErrAlreadyUsed
	}
	lic.Used = true
	lic.UsedBy = &uid
	usedAt := at
	lic.UsedAt = &usedAt
	return nil
}
