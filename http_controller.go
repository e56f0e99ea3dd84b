package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const bodyRequiredMessage = "Failed: HTTP request body is required."

// ClaimsContextKey is the ctx locals key holding validated token claims.
const ClaimsContextKey = "auth_claims"

// APIUser is the account payload returned to clients. Token is set only
// on successful logins.
type APIUser struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Token    string `json:"token,omitempty"`
}

type AuthControllerRoutes struct {
	Account string
	Login   string
}

// AuthController exposes the account and login JSON endpoints.
type AuthController struct {
	Logger Logger
	Repo   RepositoryManager
	Auther Authenticator
	Tokens TokenService
	Sink   ActivitySink
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerTokenService(tokens TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

func WithControllerActivitySink(sink ActivitySink) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Sink = normalizeActivitySink(sink)
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Sink:   noopActivitySink{},
		Routes: &AuthControllerRoutes{
			Account: "/api/account",
			Login:   "/api/login",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	return c
}

// RegisterRoutes mounts the controller on a fiber app.
func (a *AuthController) RegisterRoutes(app *fiber.App) {
	account := app.Group(a.Routes.Account)
	account.Post("/", a.AccountCreate)
	account.Get("/", a.RequireAuth(), a.AccountShow)
	account.Put("/", a.RequireAuth(), a.AccountUpdate)
	account.Delete("/:id", a.RequireAuth(), a.RequireRole(RoleAdmin), a.AccountDelete)

	login := app.Group(a.Routes.Login)
	login.Post("/", a.LoginPost)
	login.Get("/:value", a.LoginEcho)
}

// RequireAuth validates the bearer token and stashes its claims in the
// request locals.
func (a *AuthController) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		claims, err := a.Tokens.Validate(token)
		if err != nil {
			a.Logger.Debug("token validation failed", "error", err)
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		c.Locals(ClaimsContextKey, claims)
		return c.Next()
	}
}

// RequireRole guards a route behind a role claim.
func (a *AuthController) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := ClaimsFromContext(c)
		if err != nil || !claims.HasRole(role) {
			return c.SendStatus(fiber.StatusForbidden)
		}
		return c.Next()
	}
}

// ClaimsFromContext returns the validated claims stored by RequireAuth.
func ClaimsFromContext(c *fiber.Ctx) (AuthClaims, error) {
	claims, ok := c.Locals(ClaimsContextKey).(AuthClaims)
	if !ok || claims == nil {
		return nil, ErrUnableToDecodeSession
	}
	return claims, nil
}

// AccountShow returns the current account.
func (a *AuthController) AccountShow(c *fiber.Ctx) error {
	user, err := a.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Unable to load user.")
	}

	return c.JSON(APIUser{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

// RegisterPayload is the account creation body
type RegisterPayload struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AccountCreate registers a new account.
func (a *AuthController) AccountCreate(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if len(c.Body()) == 0 || c.BodyParser(payload) != nil {
		return c.Status(fiber.StatusBadRequest).SendString(bodyRequiredMessage)
	}

	handler := NewRegisterUserHandler(a.Repo).
		WithActivitySink(a.Sink).
		WithLogger(a.Logger)

	user, err := handler.Execute(c.Context(), RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		a.Logger.Error("register user error", "error", err)
		return a.sendError(c, err)
	}

	return c.JSON(APIUser{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

// UpdateAccountPayload is the profile mutation body
type UpdateAccountPayload struct {
	Password    string `json:"password" form:"password"`
	NewPassword string `json:"new_password" form:"new_password"`
	Email       string `json:"email" form:"email"`
}

// AccountUpdate mutates the authenticated account.
func (a *AuthController) AccountUpdate(c *fiber.Ctx) error {
	payload := new(UpdateAccountPayload)
	if len(c.Body()) == 0 || c.BodyParser(payload) != nil {
		return c.Status(fiber.StatusBadRequest).SendString(bodyRequiredMessage)
	}

	user, err := a.currentUser(c)
	if err != nil {
		a.Logger.Error("account update could not resolve user", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	handler := NewUpdateAccountHandler(a.Repo).
		WithActivitySink(a.Sink).
		WithLogger(a.Logger)

	if err := handler.Execute(c.Context(), UpdateAccountMessage{
		User:        user,
		Password:    payload.Password,
		NewPassword: payload.NewPassword,
		Email:       payload.Email,
	}); err != nil {
		return a.sendError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// AccountDelete removes an account by id. Admin only.
func (a *AuthController) AccountDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	user, err := a.Repo.Users().GetByUserID(c.Context(), id)
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	if err := a.Repo.Users().Remove(c.Context(), user); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	recordActivity(c.Context(), a.Sink, a.Logger, ActivityEvent{
		EventType: ActivityEventUserDeleted,
		UserID:    user.ID.String(),
	})

	return c.SendStatus(fiber.StatusOK)
}

// LoginRequest payload
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginPost checks the credentials and returns the account with a fresh
// session token. Failures carry no detail.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if len(c.Body()) == 0 || c.BodyParser(payload) != nil {
		return c.Status(fiber.StatusBadRequest).SendString(bodyRequiredMessage)
	}

	identity, token, err := a.Auther.Login(c.Context(), payload.Username, payload.Password)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	return c.JSON(APIUser{
		ID:       identity.ID(),
		Username: identity.Username(),
		Email:    identity.Email(),
		Token:    token,
	})
}

// LoginEcho is a connectivity probe.
func (a *AuthController) LoginEcho(c *fiber.Ctx) error {
	return c.SendString("Echo > " + c.Params("value"))
}

func (a *AuthController) currentUser(c *fiber.Ctx) (*User, error) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, ErrMissingAccount
	}

	return a.Repo.Users().GetByUserID(c.Context(), id)
}

func (a *AuthController) sendError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.Category {
		case goerrors.CategoryValidation, goerrors.CategoryConflict, goerrors.CategoryBadInput:
			return c.Status(fiber.StatusBadRequest).SendString(richErr.Error())
		}
	}

	return c.SendStatus(fiber.StatusInternalServerError)
}
