package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"movesbook/internal/domain/account"
	"movesbook/internal/domain/user"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
}

// TokenSigner mints identity bearer tokens for development accounts.
type TokenSigner interface {
	Sign(u user.User) (string, error)
}

// TokenVerifier validates identity-provider bearer tokens.
type TokenVerifier interface {
	Verify(token string) (user.User, error)
}

// LoginInput carries input for the login orchestrator. Either a pasted
// identity token or a local username and password, never both.
type LoginInput struct {
	Token    string
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	User        user.User
	BearerToken string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Signer       TokenSigner
	Verifier     TokenVerifier
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("identity token is invalid or expired")
)

// ExecuteLogin authenticates a user and returns the identity used for
// session creation. A pasted identity token is verified directly; local
// credentials are checked against the development account store and a
// token is minted for subsequent backend calls.
// PRE: Either Token or Username+Password is set
// POST: Returns the user and a bearer token on success
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if token := strings.TrimSpace(input.Token); token != "" {
		u, err := deps.Verifier.Verify(token)
		if err != nil {
			slog.Info("auth_event", "event", "login_failed", "method", "token", "reason", "invalid_token")
			return LoginResult{}, ErrInvalidToken
		}
		slog.Info("auth_event", "event", "login_success", "method", "token", "user_id", u.ID, "role", u.Role)
		return LoginResult{User: u, BearerToken: token}, nil
	}

	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByUsername(ctx, input.Username)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	u := acct.ToUser()
	token, err := deps.Signer.Sign(u)
	if err != nil {
		slog.Error("auth_event", "event", "token_mint_failed", "username", input.Username, "error", err)
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username, "role", u.Role)
	return LoginResult{User: u, BearerToken: token}, nil
}
