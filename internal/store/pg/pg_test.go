package pg

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/org"
)

func TestUserStoreFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("select id, name, email, password_hash, created_at from users").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
			AddRow("u1", "Alice", "a@x.com", "hash", now))

	store := New(db).Users()
	u, err := store.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u.ID != "u1" || u.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", u)
	}

	mock.ExpectQuery("select id, name, email, password_hash, created_at from users").
		WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}))
	if _, err := store.FindByEmail(context.Background(), "b@x.com"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrganizationRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	members := []org.Member{{Name: "Alice", Email: "a@x.com", AccessLevel: org.AccessOwner}}
	raw, _ := json.Marshal(members)

	mock.ExpectExec("insert into organizations").
		WithArgs("o1", "Demo", "demo org", raw, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := New(db).Organizations()
	o := org.Organization{
		ID: "o1", Name: "Demo", Description: "demo org",
		Members: members, CreatedAt: now, UpdatedAt: now,
	}
	if err := store.Insert(context.Background(), &o); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	mock.ExpectQuery("select id, name, description, members, created_at, updated_at from organizations where").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "members", "created_at", "updated_at"}).
			AddRow("o1", "Demo", "demo org", raw, now, now))

	got, err := store.Find(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].AccessLevel != org.AccessOwner {
		t.Fatalf("members not round-tripped: %+v", got.Members)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrganizationUpdateNoChange(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	store := New(db).Organizations()

	mock.ExpectExec("update organizations").
		WithArgs("o1", "Demo", "same").
		WillReturnResult(sqlmock.NewResult(0, 0))
	modified, err := store.Update(context.Background(), "o1", org.Update{Name: "Demo", Description: "same"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if modified {
		t.Fatalf("expected no-change signal")
	}

	mock.ExpectExec("update organizations").
		WithArgs("o1", "Renamed", "new").
		WillReturnResult(sqlmock.NewResult(0, 1))
	modified, err = store.Update(context.Background(), "o1", org.Update{Name: "Renamed", Description: "new"})
	if err != nil || !modified {
		t.Fatalf("expected modified update, got %v %v", modified, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAppendMemberMissingOrganization(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	entry, _ := json.Marshal(org.Member{Email: "b@x.com", AccessLevel: org.AccessGuest})
	mock.ExpectExec("update organizations set members").
		WithArgs("missing", entry).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := New(db).Organizations()
	err = store.AppendMember(context.Background(), "missing", org.Member{Email: "b@x.com", AccessLevel: org.AccessGuest})
	if !errors.Is(err, org.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRevocationLedger(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	ledger := New(db).Revocations()

	mock.ExpectExec("insert into revoked_tokens").
		WithArgs("jti-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := ledger.Revoke(context.Background(), "jti-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	mock.ExpectQuery("select exists").
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	revoked, err := ledger.IsRevoked(context.Background(), "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected revoked jti, got %v %v", revoked, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
