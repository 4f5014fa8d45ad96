// Package pg implements the persistent stores on PostgreSQL. Organizations
// keep their member list as a jsonb document so member append and the
// no-change update signal stay single atomic statements, mirroring the
// document-store contract.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/org"
)

const uniqueViolation = "23505"

// Store bundles all postgres-backed stores over one connection pool.
type Store struct {
	db *sql.DB
}

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

// New wraps an existing pool; used by tests with sqlmock.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Ping reports connectivity for the readiness probe.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Users returns the auth.UserStore implementation.
func (s *Store) Users() auth.UserStore { return &userStore{db: s.db} }

// Organizations returns the org.Store implementation.
func (s *Store) Organizations() org.Store { return &orgStore{db: s.db} }

// Revocations returns the auth.RevocationLedger implementation.
func (s *Store) Revocations() auth.RevocationLedger { return &revocationStore{db: s.db} }

// Users ----------------------------------------------------------------------

type userStore struct{ db *sql.DB }

var _ auth.UserStore = (*userStore)(nil)

func (s *userStore) Create(ctx context.Context, u *auth.User) error {
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, name, email, password_hash, created_at) values($1,$2,$3,$4,$5)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: email %s", auth.ErrConflict, u.Email)
		}
		return err
	}
	return nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, email, password_hash, created_at from users where email=$1`, email,
	)
	var u auth.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	return u, nil
}

// Organizations --------------------------------------------------------------

type orgStore struct{ db *sql.DB }

var _ org.Store = (*orgStore)(nil)

func (s *orgStore) Insert(ctx context.Context, o *org.Organization) error {
	members, err := json.Marshal(o.Members)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into organizations(id, name, description, members, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6)`,
		o.ID, o.Name, o.Description, members, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (s *orgStore) Find(ctx context.Context, id string) (org.Organization, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, description, members, created_at, updated_at from organizations where id=$1`, id,
	)
	return scanOrganization(row)
}

func (s *orgStore) List(ctx context.Context) ([]org.Organization, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, name, description, members, created_at, updated_at from organizations order by created_at asc`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []org.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update only touches rows whose attributes actually differ, so RowsAffected
// carries the document-store "zero modified" signal.
func (s *orgStore) Update(ctx context.Context, id string, upd org.Update) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`update organizations
		 set name=$2, description=$3, updated_at=now()
		 where id=$1 and (name is distinct from $2 or description is distinct from $3)`,
		id, upd.Name, upd.Description,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *orgStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `delete from organizations where id=$1`, id)
	return err
}

func (s *orgStore) AppendMember(ctx context.Context, id string, m org.Member) error {
	entry, err := json.Marshal(m)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`update organizations set members = members || $2::jsonb, updated_at=now() where id=$1`,
		id, entry,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return org.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (org.Organization, error) {
	var (
		o       org.Organization
		members []byte
	)
	if err := row.Scan(&o.ID, &o.Name, &o.Description, &members, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return org.Organization{}, org.ErrNotFound
		}
		return org.Organization{}, err
	}
	if len(members) > 0 {
		if err := json.Unmarshal(members, &o.Members); err != nil {
			return org.Organization{}, err
		}
	}
	return o, nil
}

// Revocations ----------------------------------------------------------------

type revocationStore struct{ db *sql.DB }

var _ auth.RevocationLedger = (*revocationStore)(nil)

func (s *revocationStore) Revoke(ctx context.Context, jti string) error {
	_, err := s.db.ExecContext(ctx,
		`insert into revoked_tokens(jti, revoked_at) values($1, now()) on conflict (jti) do nothing`, jti,
	)
	return err
}

func (s *revocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from revoked_tokens where jti=$1)`, jti,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
