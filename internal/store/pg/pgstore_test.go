package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"parlor.chat/internal/admin"
	"parlor.chat/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestUsersFind(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("select uid, email, display_name, is_admin, plan, created_at").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "email", "display_name", "is_admin", "plan", "created_at"}).
			AddRow("u-1", "a@b.cc", "Alice", true, "Pro", created))

	u, err := s.Users(context.Background()).Find(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.UID != "u-1" || !u.IsAdmin || u.Plan != admin.PlanPro {
		t.Fatalf("unexpected record: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUsersFindNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("select uid, email, display_name, is_admin, plan, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "email", "display_name", "is_admin", "plan", "created_at"}))

	_, err := s.Users(context.Background()).Find(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUsersSetPlanNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("update users set plan").
		WithArgs("missing", "Classic").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Users(context.Background()).SetPlan(context.Background(), "missing", admin.PlanClassic)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBansAppend(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	ban := &admin.Ban{
		ID: "01BAN", UserID: "u-2", Reason: "spamming links", BannedBy: "u-1",
		BannedAt: now, Duration: 86400, ExpiresAt: now.Add(24 * time.Hour),
	}

	mock.ExpectExec("insert into bans").
		WithArgs(ban.ID, ban.UserID, ban.Reason, ban.BannedBy, ban.BannedAt, ban.Duration, ban.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := s.Bans(context.Background()).Append(context.Background(), ban); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLicensesCreateConflict(t *testing.T) {
	s, mock := newMockStore(t)
	lic := &admin.License{
		Key: "LIC-1-AAAAAAAAA", Plan: admin.PlanPro, ValidityDays: 30,
		CreatedBy: "u-1", CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("insert into licenses").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Licenses(context.Background()).Create(context.Background(), lic)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLicensesMarkUsedAlreadyUsed(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Now().UTC()

	mock.ExpectExec("update licenses set used").
		WithArgs("LIC-1-AAAAAAAAA", "u-3", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select used from licenses").
		WithArgs("LIC-1-AAAAAAAAA").
		WillReturnRows(sqlmock.NewRows([]string{"used"}).AddRow(true))

	err := s.Licenses(context.Background()).MarkUsed(context.Background(), "LIC-1-AAAAAAAAA", "u-3", at)
	if !errors.Is(err, store.ErrAlreadyUsed) {
		t.Fatalf("expected ErrAlreadyUsed, got %v", err)
	}
}
