// Package firestore backs the record store with Cloud Firestore, the
// document database the production chat app writes its users into.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	cf "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"parlor.chat/internal/admin"
	"parlor.chat/internal/store"
)

const (
	usersCollection    = "users"
	bansCollection     = "bans"
	ipBansCollection   = "ip_bans"
	licensesCollection = "licenses"
)

// Store implements store.Store over a Firestore client.
type Store struct {
	client *cf.Client
}

var _ store.Store = (*Store)(nil)

// Open connects to Firestore using a service account credential file.
func Open(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore: project id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := cf.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: open client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Users(ctx context.Context) store.UserStore       { return users{s.client} }
func (s *Store) Bans(ctx context.Context) store.BanStore         { return bans{s.client} }
func (s *Store) IPBans(ctx context.Context) store.IPBanStore     { return ipBans{s.client} }
func (s *Store) Licenses(ctx context.Context) store.LicenseStore { return licenses{s.client} }

type users struct{ client *cf.Client }

func (u users) Find(ctx context.Context, uid string) (*admin.User, error) {
	snap, err := u.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: get user: %w", err)
	}
	var rec admin.User
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("firestore: decode user: %w", err)
	}
	rec.UID = snap.Ref.ID
	return &rec, nil
}

func (u users) List(ctx context.Context, limit int) ([]*admin.User, error) {
	q := u.client.Collection(usersCollection).OrderBy("createdAt", cf.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*admin.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: list users: %w", err)
		}
		var rec admin.User
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("firestore: decode user %s: %w", snap.Ref.ID, err)
		}
		rec.UID = snap.Ref.ID
		out = append(out, &rec)
	}
	return out, nil
}

func (u users) SetPlan(ctx context.Context, uid string, plan admin.Plan) error {
	_, err := u.client.Collection(usersCollection).Doc(uid).Update(ctx, []cf.Update{
		{Path: "plan", Value: string(plan)},
	})
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore: set plan: %w", err)
	}
	return nil
}

type bans struct{ client *cf.Client }

func (b bans) Append(ctx context.Context, ban *admin.Ban) error {
	_, err := b.client.Collection(bansCollection).Doc(ban.ID).Create(ctx, ban)
	if status.Code(err) == codes.AlreadyExists {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("firestore: append ban: %w", err)
	}
	return nil
}

func (b bans) List(ctx context.Context, limit int) ([]*admin.Ban, error) {
	q := b.client.Collection(bansCollection).OrderBy("bannedAt", cf.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*admin.Ban
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: list bans: %w", err)
		}
		var rec admin.Ban
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("firestore: decode ban %s: %w", snap.Ref.ID, err)
		}
		rec.ID = snap.Ref.ID
		out = append(out, &rec)
	}
	return out, nil
}

type ipBans struct{ client *cf.Client }

func (b ipBans) Append(ctx context.Context, ban *admin.IPBan) error {
	_, err := b.client.Collection(ipBansCollection).Doc(ban.ID).Create(ctx, ban)
	if status.Code(err) == codes.AlreadyExists {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("firestore: append ip ban: %w", err)
	}
	return nil
}

func (b ipBans) List(ctx context.Context, limit int) ([]*admin.IPBan, error) {
	q := b.client.Collection(ipBansCollection).OrderBy("bannedAt", cf.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*admin.IPBan
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: list ip bans: %w", err)
		}
		var rec admin.IPBan
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("firestore: decode ip ban %s: %w", snap.Ref.ID, err)
		}
		rec.ID = snap.Ref.ID
		out = append(out, &rec)
	}
	return out, nil
}

type licenses struct{ client *cf.Client }

func (l licenses) Create(ctx context.Context, lic *admin.License) error {
	_, err := l.client.Collection(licensesCollection).Doc(lic.Key).Create(ctx, lic)
	if status.Code(err) == codes.AlreadyExists {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("firestore: create license: %w", err)
	}
	return nil
}

func (l licenses) Find(ctx context.Context, key string) (*admin.License, error) {
	snap, err := l.client.Collection(licensesCollection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: get license: %w", err)
	}
	var rec admin.License
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("firestore: decode license: %w", err)
	}
	rec.Key = snap.Ref.ID
	return &rec, nil
}

func (l licenses) MarkUsed(ctx context.Context, key, uid string, at time.Time) error {
	ref := l.client.Collection(licensesCollection).Doc(key)
	err := l.client.RunTransaction(ctx, func(ctx context.Context, tx *cf.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		used, err := snap.DataAt("used")
		if err != nil {
			return err
		}
		if used == true {
			return store.ErrAlreadyUsed
		}
		return tx.Update(ref, []cf.Update{
			{Path: "used", Value: true},
			{Path: "usedBy", Value: uid},
			{Path: "usedAt", Value: at},
		})
	})
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrAlreadyUsed) {
		return err
	}
	if err != nil {
		return fmt.Errorf("firestore: mark license used: %w", err)
	}
	return nil
}
