package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"parlor.chat/internal/guard"
	"parlor.chat/internal/identity"
	"parlor.chat/internal/ids"
	"parlor.chat/internal/schema"
	"parlor.chat/internal/store"
)

// licenseKeyRetries bounds collision retries when creating a license.
const licenseKeyRetries = 3

// Service implements the admin operations. Dependencies are injected
// explicitly; a service built without a verifier or store stays usable but
// fails every operation closed with ErrUnavailable.
type Service struct {
	verifier identity.Verifier
	store    store.Store
	now      func() time.Time
	entropy  io.Reader
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithEntropy overrides the license key randomness source.
func WithEntropy(r io.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.entropy = r
		}
	}
}

// NewService constructs the admin service. verifier and st may be nil when
// the deployment is missing credentials; operations then return
// ErrUnavailable instead of partially functioning.
func NewService(verifier identity.Verifier, st store.Store, opts ...Option) *Service {
	s := &Service{
		verifier: verifier,
		store:    st,
		now:      time.Now,
		entropy:  defaultEntropy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) configured() error {
	if s == nil || s.verifier == nil || s.store == nil {
		return ErrUnavailable
	}
	return nil
}

// authenticate validates the token shape, then exchanges it for a verified
// subject via the identity provider.
func (s *Service) authenticate(ctx context.Context, idToken string) (identity.Identity, error) {
	token, err := schema.IDToken.Validate(idToken)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	id, err := s.verifier.Verify(ctx, token)
	switch {
	case errors.Is(err, identity.ErrUnavailable):
		return identity.Identity{}, ErrUnavailable
	case err != nil:
		return identity.Identity{}, fmt.Errorf("%w: token verification failed", ErrUnauthenticated)
	}
	return id, nil
}

// Authenticate verifies a token without requiring admin privilege. Used by
// the endpoints any signed-in user may call.
func (s *Service) Authenticate(ctx context.Context, idToken string) (identity.Identity, error) {
	if err := s.configured(); err != nil {
		return identity.Identity{}, err
	}
	return s.authenticate(ctx, idToken)
}

// authorize is the single security-critical chokepoint: every admin
// operation passes through it with a freshly verified identity before any
// read or write happens. It fails closed when the user record is absent or
// the privilege flag is not set.
func (s *Service) authorize(ctx context.Context, idToken string) (string, error) {
	if err := s.configured(); err != nil {
		return "", err
	}
	id, err := s.authenticate(ctx, idToken)
	if err != nil {
		return "", err
	}
	user, err := s.store.Users(ctx).Find(ctx, id.UID)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: no user record for subject", ErrNotAdmin)
	}
	if err != nil {
		return "", fmt.Errorf("admin: authorization lookup: %w", err)
	}
	if !user.IsAdmin {
		return "", fmt.Errorf("%w: privilege flag not set", ErrNotAdmin)
	}
	return user.UID, nil
}

// VerifyAdmin confirms the caller is an admin and returns the admin uid.
// Pure read, idempotent.
func (s *Service) VerifyAdmin(ctx context.Context, idToken string) (string, error) {
	return s.authorize(ctx, idToken)
}

// BanUserInput is the ban-user payload after JSON decoding.
type BanUserInput struct {
	UserID   string
	Reason   string
	Duration int64
}

// BanUser appends a ban record for the target user. Repeated calls create
// duplicate records; there is no uniqueness check on target and time.
func (s *Service) BanUser(ctx context.Context, idToken string, in BanUserInput) (*Ban, error) {
	adminUID, err := s.authorize(ctx, idToken)
	if err != nil {
		return nil, err
	}

	targetID, err := schema.UserID.Validate(in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	reason, err := schema.BanReason.Validate(guard.Sanitize(in.Reason))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := schema.BanDuration.Validate(in.Duration); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	target, err := s.store.Users(ctx).Find(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, targetID)
	}
	if err != nil {
		return nil, fmt.Errorf("admin: fetch ban target: %w", err)
	}
	if target.IsAdmin {
		return nil, fmt.Errorf("%w: cannot ban an admin", ErrForbidden)
	}

	now := s.now().UTC()
	ban := &Ban{
		ID:        ids.New(),
		UserID:    target.UID,
		Reason:    reason,
		BannedBy:  adminUID,
		BannedAt:  now,
		Duration:  in.Duration,
		ExpiresAt: now.Add(time.Duration(in.Duration*1000) * time.Millisecond),
	}
	if err := s.store.Bans(ctx).Append(ctx, ban); err != nil {
		return nil, fmt.Errorf("admin: append ban: %w", err)
	}
	return ban, nil
}

// BanIPInput is the ban-ip payload after JSON decoding.
type BanIPInput struct {
	IP       string
	Reason   string
	Duration int64
}

// BanIP appends an address-level ban record.
func (s *Service) BanIP(ctx context.Context, idToken string, in BanIPInput) (*IPBan, error) {
	adminUID, err := s.authorize(ctx, idToken)
	if err != nil {
		return nil, err
	}

	ip, err := schema.ValidateIP("ip", in.IP)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	reason, err := schema.BanReason.Validate(guard.Sanitize(in.Reason))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := schema.BanDuration.Validate(in.Duration); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	ban := &IPBan{
		ID:        ids.New(),
		IP:        ip,
		Reason:    reason,
		BannedBy:  adminUID,
		BannedAt:  now,
		Duration:  in.Duration,
		ExpiresAt: now.Add(time.Duration(in.Duration*1000) * time.Millisecond),
	}
	if err := s.store.IPBans(ctx).Append(ctx, ban); err != nil {
		return nil, fmt.Errorf("admin: append ip ban: %w", err)
	}
	return ban, nil
}

// ListUsers returns the fixed projection for every user record. limit <= 0
// means no cap.
func (s *Service) ListUsers(ctx context.Context, idToken string, limit int) ([]UserSummary, error) {
	if _, err := s.authorize(ctx, idToken); err != nil {
		return nil, err
	}
	users, err := s.store.Users(ctx).List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("admin: list users: %w", err)
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// ListBans returns ban records, oldest first.
func (s *Service) ListBans(ctx context.Context, idToken string, limit int) ([]*Ban, error) {
	if _, err := s.authorize(ctx, idToken); err != nil {
		return nil, err
	}
	bans, err := s.store.Bans(ctx).List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("admin: list bans: %w", err)
	}
	return bans, nil
}

// CreateLicenseInput is the create-license payload after JSON decoding.
type CreateLicenseInput struct {
	Plan         string
	ValidityDays int
}

// CreateLicense writes a new unused license record and returns it. Key
// collisions are retried a bounded number of times against the store.
func (s *Service) CreateLicense(ctx context.Context, idToken string, in CreateLicenseInput) (*License, error) {
	adminUID, err := s.authorize(ctx, idToken)
	if err != nil {
		return nil, err
	}

	if err := schema.LicensePlan.Validate(in.Plan); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := schema.ValidityDays.Validate(int64(in.ValidityDays)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	for attempt := 0; attempt < licenseKeyRetries; attempt++ {
		key, err := newLicenseKey(now, s.entropy)
		if err != nil {
			return nil, fmt.Errorf("admin: generate license key: %w", err)
		}
		lic := &License{
			Key:          key,
			Plan:         Plan(in.Plan),
			ValidityDays: in.ValidityDays,
			CreatedBy:    adminUID,
			CreatedAt:    now,
			Used:         false,
		}
		err = s.store.Licenses(ctx).Create(ctx, lic)
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("admin: create license: %w", err)
		}
		return lic, nil
	}
	return nil, fmt.Errorf("%w: license key space exhausted", ErrConflict)
}

// RedeemLicense consumes a license on behalf of the verified caller (no
// admin privilege required) and upgrades the caller's plan.
func (s *Service) RedeemLicense(ctx context.Context, idToken, licenseKey string) (*License, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	id, err := s.authenticate(ctx, idToken)
	if err != nil {
		return nil, err
	}
	key, err := schema.LicenseKey.Validate(licenseKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	user, err := s.store.Users(ctx).Find(ctx, id.UID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: no user record for subject", ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("admin: redeem lookup: %w", err)
	}

	lic, err := s.store.Licenses(ctx).Find(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: license %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("admin: find license: %w", err)
	}

	now := s.now().UTC()
	if now.After(lic.CreatedAt.Add(time.Duration(lic.ValidityDays) * 24 * time.Hour)) {
		return nil, fmt.Errorf("%w: license expired", ErrConflict)
	}

	err = s.store.Licenses(ctx).MarkUsed(ctx, key, user.UID, now)
	switch {
	case errors.Is(err, store.ErrAlreadyUsed):
		return nil, fmt.Errorf("%w: license already used", ErrConflict)
	case errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("%w: license %s", ErrNotFound, key)
	case err != nil:
		return nil, fmt.Errorf("admin: mark license used: %w", err)
	}

	if err := s.store.Users(ctx).SetPlan(ctx, user.UID, lic.Plan); err != nil {
		return nil, fmt.Errorf("admin: apply plan: %w", err)
	}

	lic.Used = true
	uid := user.UID
	lic.UsedBy = &uid
	usedAt := now
	lic.UsedAt = &usedAt
	return lic, nil
}
