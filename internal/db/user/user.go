package user

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/db"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "user_email_idx"

const userColumns = `id, email, display_name, password_hash, status,
	token, token_purpose, token_expires_at, is_deleted, created_at, updated_at`

const createUser = `
INSERT INTO "user" (
	email, display_name, password_hash, status,
	token, token_purpose, token_expires_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING ` + userColumns

const getUserByID = `SELECT ` + userColumns + ` FROM "user" WHERE id = $1 AND NOT is_deleted`

const getUserByEmail = `SELECT ` + userColumns + ` FROM "user" WHERE email = $1 AND NOT is_deleted`

const updateUser = `
UPDATE "user"
SET
	display_name = CASE WHEN $2::boolean THEN $3 ELSE display_name END,
	updated_at = $4
WHERE id = $1 AND NOT is_deleted
RETURNING ` + userColumns

const setToken = `
UPDATE "user"
SET token = $2, token_purpose = $3, token_expires_at = $4, updated_at = $5
WHERE id = $1 AND NOT is_deleted
RETURNING ` + userColumns

const consumeToken = `
UPDATE "user"
SET
	status = CASE WHEN $5::boolean THEN 'active' ELSE status END,
	password_hash = COALESCE($6, password_hash),
	token = NULL,
	token_purpose = NULL,
	token_expires_at = NULL,
	updated_at = $4
WHERE
	id = $1
	AND token = $2
	AND token_purpose = $3
	AND token_expires_at >= $4
	AND NOT is_deleted
RETURNING ` + userColumns

const clearToken = `
UPDATE "user"
SET token = NULL, token_purpose = NULL, token_expires_at = NULL, updated_at = $3
WHERE id = $1 AND token_purpose = $2 AND NOT is_deleted`

const setPassword = `
UPDATE "user"
SET password_hash = $2, updated_at = $3
WHERE id = $1 AND NOT is_deleted`

const deleteUser = `
UPDATE "user"
SET is_deleted = TRUE, token = NULL, token_purpose = NULL, token_expires_at = NULL, updated_at = $2
WHERE id = $1 AND NOT is_deleted`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxUserRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: dbtx}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	status := input.Status
	if status == "" {
		status = user.StatusUnverified
	}
	token, purpose, expiresAt := encodeToken(input.Token)
	row := r.db.QueryRow(
		ctx,
		createUser,
		string(input.Email),
		input.DisplayName,
		string(input.PasswordHash),
		string(status),
		token,
		purpose,
		expiresAt,
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME {
			return u, user.ErrEmailAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (user.User, error) {
	return r.queryUser(ctx, user.ErrUserDoesNotExist, getUserByID, int64(id))
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (user.User, error) {
	return r.queryUser(ctx, user.ErrUserDoesNotExist, getUserByEmail, string(email))
}

func (r *PgxUserRepository) Update(ctx context.Context, input user.UpdateUserInput) (user.User, error) {
	return r.queryUser(
		ctx,
		user.ErrUserDoesNotExist,
		updateUser,
		int64(input.ID),
		input.DoDisplayNameUpdate,
		input.DisplayName,
		input.At,
	)
}

func (r *PgxUserRepository) SetToken(ctx context.Context, input user.SetTokenInput) (user.User, error) {
	return r.queryUser(
		ctx,
		user.ErrUserDoesNotExist,
		setToken,
		int64(input.ID),
		string(input.Token.Value),
		string(input.Token.Purpose),
		input.Token.ExpiresAt,
		input.At,
	)
}

func (r *PgxUserRepository) ConsumeToken(ctx context.Context, input user.ConsumeTokenInput) (user.User, error) {
	passwordHash := pgtype.Text{Status: pgtype.Null}
	if input.PasswordHash.IsPresent {
		passwordHash = pgtype.Text{String: string(input.PasswordHash.Value), Status: pgtype.Present}
	}
	return r.queryUser(
		ctx,
		user.ErrInvalidToken,
		consumeToken,
		int64(input.ID),
		string(input.Value),
		string(input.Purpose),
		input.At,
		input.Activate,
		passwordHash,
	)
}

func (r *PgxUserRepository) ClearToken(ctx context.Context, input user.ClearTokenInput) error {
	_, err := r.db.Exec(ctx, clearToken, int64(input.ID), string(input.Purpose), input.At)
	return err
}

func (r *PgxUserRepository) SetPassword(ctx context.Context, input user.SetPasswordInput) error {
	return r.execOne(ctx, setPassword, int64(input.ID), string(input.PasswordHash), input.At)
}

func (r *PgxUserRepository) Delete(ctx context.Context, id user.ID, at time.Time) error {
	return r.execOne(ctx, deleteUser, int64(id), at)
}

func (r *PgxUserRepository) queryUser(
	ctx context.Context,
	errNoRows error,
	query string,
	args ...interface{},
) (u user.User, err error) {
	u, err = scanUser(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return u, errNoRows
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id             int64
		email          string
		passwordHash   string
		status         string
		token          pgtype.Text
		tokenPurpose   pgtype.Text
		tokenExpiresAt pgtype.Timestamptz
	)
	err = row.Scan(
		&id,
		&email,
		&u.DisplayName,
		&passwordHash,
		&status,
		&token,
		&tokenPurpose,
		&tokenExpiresAt,
		&u.IsDeleted,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.Email = c.Email(email)
	u.PasswordHash = user.PasswordHash(passwordHash)
	u.Status = user.Status(status)
	u.Token = decodeToken(token, tokenPurpose, tokenExpiresAt)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func encodeToken(token c.Optional[user.Token]) (pgtype.Text, pgtype.Text, pgtype.Timestamptz) {
	if !token.IsPresent {
		return pgtype.Text{Status: pgtype.Null},
			pgtype.Text{Status: pgtype.Null},
			pgtype.Timestamptz{Status: pgtype.Null}
	}
	return pgtype.Text{String: string(token.Value.Value), Status: pgtype.Present},
		pgtype.Text{String: string(token.Value.Purpose), Status: pgtype.Present},
		pgtype.Timestamptz{Time: token.Value.ExpiresAt, Status: pgtype.Present}
}

func decodeToken(token pgtype.Text, purpose pgtype.Text, expiresAt pgtype.Timestamptz) c.Optional[user.Token] {
	if token.Status != pgtype.Present {
		return c.None[user.Token]()
	}
	return c.Some(user.Token{
		Value:     user.TokenValue(token.String),
		Purpose:   user.Purpose(purpose.String),
		ExpiresAt: expiresAt.Time.UTC(),
	})
}
