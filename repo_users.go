package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var changePasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

var setEmailSQL = `UPDATE "users" AS "usr"
SET
	"email" = ?,
	"updated_at" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

var removeUserSQL = `UPDATE "users" AS "usr"
SET
	"deleted_at" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUserID(ctx context.Context, id uuid.UUID) (*User, error)

	ChangePassword(ctx context.Context, user *User, current, next string) error
	SetEmail(ctx context.Context, user *User, email string) error
	Roles(ctx context.Context, user *User) ([]string, error)
	Remove(ctx context.Context, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return a.CreateTx(ctx, tx, user)
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.getByColumn(ctx, "username", username)
}

func (a *users) GetByUserID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.getByColumn(ctx, "id", id.String())
}

func (a *users) getByColumn(ctx context.Context, column, value string) (*User, error) {
	record := &User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

// ChangePassword verifies the current password before storing a new
// hash. A mismatch surfaces as ErrMismatchedHashAndPassword.
func (a *users) ChangePassword(ctx context.Context, user *User, current, next string) error {
	if err := ComparePasswordAndHash(current, user.PasswordHash); err != nil {
		return err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}

	return a.rawUpdate(ctx, changePasswordSQL, hash, time.Now(), user.ID.String())
}

func (a *users) SetEmail(ctx context.Context, user *User, email string) error {
	return a.rawUpdate(ctx, setEmailSQL, email, time.Now(), user.ID.String())
}

// Roles returns the role claims for a user. The model keeps a single
// role column; callers treat the result as a set.
func (a *users) Roles(_ context.Context, user *User) ([]string, error) {
	if user == nil || user.Role == "" {
		return nil, nil
	}
	return []string{string(user.Role)}, nil
}

func (a *users) Remove(ctx context.Context, user *User) error {
	return a.rawUpdate(ctx, removeUserSQL, time.Now(), user.ID.String())
}

func (a *users) rawUpdate(ctx context.Context, sql string, args ...any) error {
	res, err := a.Repository.RawTx(ctx, a.db, sql, args...)
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound()
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleMember
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
