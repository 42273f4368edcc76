package repository

import (
	"context"
	"time"

	commondb "github.com/AlibekovAA/auth-service/internal/common/db"
	commonerrors "github.com/AlibekovAA/auth-service/internal/common/errors"
	"github.com/AlibekovAA/auth-service/internal/user/domain"
)

var (
	ErrUserNotFound       = commonerrors.ErrUserNotFound
	ErrEmailAlreadyExists = commonerrors.ErrEmailAlreadyExists
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateUsername(ctx context.Context, id domain.ID, username string, updatedAt time.Time) (domain.User, error)
}

type PgRepository struct {
	db commondb.Querier
}

func NewPgRepository(db commondb.Querier) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING id, email, username, password_hash, created_at, updated_at`,
		string(user.ID),
		user.Email,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)

	created, err := scanUser(row)
	if err != nil {
		if commondb.IsUniqueViolation(err) {
			commondb.MeasureQueryDuration("create user", start)
			return domain.User{}, ErrEmailAlreadyExists
		}
		return domain.User{}, commondb.HandleExecError(err, "create user", start)
	}
	commondb.MeasureQueryDuration("create user", start)

	return created, nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT id, email, username, password_hash, created_at, updated_at FROM users WHERE email = $1`,
		email,
	)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, commondb.HandleQueryError(err, ErrUserNotFound, "find user by email", start)
	}
	commondb.MeasureQueryDuration("find user by email", start)

	return user, nil
}

func (r *PgRepository) UpdateUsername(ctx context.Context, id domain.ID, username string, updatedAt time.Time) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`UPDATE users SET username = $2, updated_at = $3
		 WHERE id = $1
		 RETURNING id, email, username, password_hash, created_at, updated_at`,
		string(id),
		username,
		updatedAt,
	)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, commondb.HandleQueryError(err, ErrUserNotFound, "update user username", start)
	}
	commondb.MeasureQueryDuration("update user username", start)

	return user, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		id   string
	)
	if err := row.Scan(&id, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)
	return user, nil
}
