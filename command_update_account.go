package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// UpdateAccountMessage carries a profile mutation for an already
// authenticated user. A non-empty NewPassword wins over Email; Password
// is the current password, required for the password-change branch.
type UpdateAccountMessage struct {
	User        *User  `json:"-"`
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
	Email       string `json:"email"`
}

func (e UpdateAccountMessage) Type() string { return "user.update" }

type UpdateAccountHandler struct {
	repo   RepositoryManager
	sink   ActivitySink
	logger Logger
}

func NewUpdateAccountHandler(repo RepositoryManager) *UpdateAccountHandler {
	return &UpdateAccountHandler{
		repo:   repo,
		sink:   noopActivitySink{},
		logger: defLogger{},
	}
}

func (h *UpdateAccountHandler) WithActivitySink(sink ActivitySink) *UpdateAccountHandler {
	h.sink = normalizeActivitySink(sink)
	return h
}

func (h *UpdateAccountHandler) WithLogger(logger Logger) *UpdateAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UpdateAccountHandler) Execute(ctx context.Context, event UpdateAccountMessage) error {
	if event.User == nil {
		// the transport resolved an authenticated session but no user:
		// a broken contract upstream, not a user-facing rejection
		return ErrMissingAccount
	}

	if event.NewPassword != "" {
		if err := h.repo.Users().ChangePassword(ctx, event.User, event.Password, event.NewPassword); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "could not change password")
		}

		recordActivity(ctx, h.sink, h.logger, ActivityEvent{
			EventType: ActivityEventPasswordChanged,
			UserID:    event.User.ID.String(),
		})

		return nil
	}

	if event.Email != "" {
		if event.Email != event.User.Email {
			if err := h.repo.Users().SetEmail(ctx, event.User, event.Email); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryValidation, "could not set email")
			}

			recordActivity(ctx, h.sink, h.logger, ActivityEvent{
				EventType: ActivityEventEmailChanged,
				UserID:    event.User.ID.String(),
			})
		}

		return nil
	}

	return goerrors.New("bad request", goerrors.CategoryBadInput).
		WithTextCode("BAD_REQUEST")
}
