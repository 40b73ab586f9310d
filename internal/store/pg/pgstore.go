// Package pg backs the record store with Postgres for self-hosted
// deployments that do not use the managed document database.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"parlor.chat/internal/admin"
	"parlor.chat/internal/store"
)

// Store implements store.Store over database/sql with the pgx driver.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to Postgres with pool settings tuned for this service.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing handle; tests use it with sqlmock.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Users(ctx context.Context) store.UserStore       { return users{s.db} }
func (s *Store) Bans(ctx context.Context) store.BanStore         { return bans{s.db} }
func (s *Store) IPBans(ctx context.Context) store.IPBanStore     { return ipBans{s.db} }
func (s *Store) Licenses(ctx context.Context) store.LicenseStore { return licenses{s.db} }

type users struct{ db *sql.DB }

func (u users) Find(ctx context.Context, uid string) (*admin.User, error) {
	var rec admin.User
	err := u.db.QueryRowContext(ctx, `
		select uid, email, display_name, is_admin, plan, created_at
		from users where uid = $1
	`, uid).Scan(&rec.UID, &rec.Email, &rec.DisplayName, &rec.IsAdmin, &rec.Plan, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: find user: %w", err)
	}
	return &rec, nil
}

func (u users) List(ctx context.Context, limit int) ([]*admin.User, error) {
	query := `
		select uid, email, display_name, is_admin, plan, created_at
		from users order by created_at, uid
	`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = u.db.QueryContext(ctx, query+` limit $1`, limit)
	} else {
		rows, err = u.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("pg: list users: %w", err)
	}
	defer rows.Close()

	var out []*admin.User
	for rows.Next() {
		var rec admin.User
		if err := rows.Scan(&rec.UID, &rec.Email, &rec.DisplayName, &rec.IsAdmin, &rec.Plan, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("pg: scan user: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (u users) SetPlan(ctx context.Context, uid string, plan admin.Plan) error {
	res, err := u.db.ExecContext(ctx, `update users set plan = $2 where uid = $1`, uid, string(plan))
	if err != nil {
		return fmt.Errorf("pg: set plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pg: set plan: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type bans struct{ db *sql.DB }

func (b bans) Append(ctx context.Context, ban *admin.Ban) error {
	_, err := b.db.ExecContext(ctx, `
		insert into bans(id, user_id, reason, banned_by, banned_at, duration, expires_at)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, ban.ID, ban.UserID, ban.Reason, ban.BannedBy, ban.BannedAt, ban.Duration, ban.ExpiresAt)
	if err != nil {
		return fmt.Errorf("pg: append ban: %w", err)
	}
	return nil
}

func (b bans) List(ctx context.Context, limit int) ([]*admin.Ban, error) {
	query := `
		select id, user_id, reason, banned_by, banned_at, duration, expires_at
		from bans order by banned_at, id
	`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = b.db.QueryContext(ctx, query+` limit $1`, limit)
	} else {
		rows, err = b.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("pg: list bans: %w", err)
	}
	defer rows.Close()

	var out []*admin.Ban
	for rows.Next() {
		var rec admin.Ban
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Reason, &rec.BannedBy, &rec.BannedAt, &rec.Duration, &rec.ExpiresAt); err != nil {
			return nil, fmt.Errorf("pg: scan ban: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

type ipBans struct{ db *sql.DB }

func (b ipBans) Append(ctx context.Context, ban *admin.IPBan) error {
	_, err := b.db.ExecContext(ctx, `
		insert into ip_bans(id, ip, reason, banned_by, banned_at, duration, expires_at)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, ban.ID, ban.IP, ban.Reason, ban.BannedBy, ban.BannedAt, ban.Duration, ban.ExpiresAt)
	if err != nil {
		return fmt.Errorf("pg: append ip ban: %w", err)
	}
	return nil
}

func (b ipBans) List(ctx context.Context, limit int) ([]*admin.IPBan, error) {
	query := `
		select id, ip, reason, banned_by, banned_at, duration, expires_at
		from ip_bans order by banned_at, id
	`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = b.db.QueryContext(ctx, query+` limit $1`, limit)
	} else {
		rows, err = b.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("pg: list ip bans: %w", err)
	}
	defer rows.Close()

	var out []*admin.IPBan
	for rows.Next() {
		var rec admin.IPBan
		if err := rows.Scan(&rec.ID, &rec.IP, &rec.Reason, &rec.BannedBy, &rec.BannedAt, &rec.Duration, &rec.ExpiresAt); err != nil {
			return nil, fmt.Errorf("pg: scan ip ban: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

type licenses struct{ db *sql.DB }

func (l licenses) Create(ctx context.Context, lic *admin.License) error {
	res, err := l.db.ExecContext(ctx, `
		insert into licenses(key, plan, validity_days, created_by, created_at, used, used_by, used_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
		on conflict (key) do nothing
	`, lic.Key, string(lic.Plan), lic.ValidityDays, lic.CreatedBy, lic.CreatedAt, lic.Used, lic.UsedBy, lic.UsedAt)
	if err != nil {
		return fmt.Errorf("pg: create license: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pg: create license: %w", err)
	}
	if affected == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (l licenses) Find(ctx context.Context, key string) (*admin.License, error) {
	var rec admin.License
	err := l.db.QueryRowContext(ctx, `
		select key, plan, validity_days, created_by, created_at, used, used_by, used_at
		from licenses where key = $1
	`, key).Scan(&rec.Key, &rec.Plan, &rec.ValidityDays, &rec.CreatedBy, &rec.CreatedAt, &rec.Used, &rec.UsedBy, &rec.UsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: find license: %w", err)
	}
	return &rec, nil
}

func (l licenses) MarkUsed(ctx context.Context, key, uid string, at time.Time) error {
	res, err := l.db.ExecContext(ctx, `
		update licenses set used = true, used_by = $2, used_at = $3
		where key = $1 and used = false
	`, key, uid, at)
	if err != nil {
		return fmt.Errorf("pg: mark license used: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pg: mark license used: %w", err)
	}
	if affected == 1 {
		return nil
	}
	// Zero rows: the key is either missing or already consumed.
	var used bool
	err = l.db.QueryRowContext(ctx, `select used from licenses where key = $1`, key).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("pg: mark license used: %w", err)
	}
	if used {
		return store.ErrAlreadyUsed
	}
	return store.ErrNotFound
}
