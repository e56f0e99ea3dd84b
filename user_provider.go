package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserFinder is the slice of the users store the provider needs
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// UserProvider resolves identities from the users store. The credential
// check is stateless: no lockout counters, no persisted session.
type UserProvider struct {
	store     UserFinder
	passwords PasswordAuthenticator
	logger    Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserFinder) *UserProvider {
	return &UserProvider{
		store:     store,
		passwords: NewPasswordAuthenticator(),
		logger:    defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// WithPasswordAuthenticator swaps the credential comparison strategy,
// e.g. a cheap double in tests.
func (u *UserProvider) WithPasswordAuthenticator(p PasswordAuthenticator) *UserProvider {
	if p != nil {
		u.passwords = p
	}
	return u
}

// VerifyIdentity will find the user, compare to the password, and return identity
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			// same failure as a wrong password, by symmetry
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if err := u.passwords.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return user.Identity(), nil
}

func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return user.Identity(), nil
}

type authIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Role() string {
	return a.role
}

var _ Identity = authIdentity{}
