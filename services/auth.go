package services

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"financehub/client"
	"financehub/entities"

	"github.com/pkg/errors"
)

var ErrNoSession = errors.New("not signed in")

type AuthService struct {
	client *client.Client
}

func NewAuthService(c *client.Client) *AuthService {
	return &AuthService{client: c}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// Register creates the identity. The account is pending verification, so the
// returned session is not installed on the client; the user signs in
// separately.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*entities.Session, error) {
	var session entities.Session
	err := s.client.Post(ctx, "/auth/v1/signup", credentials{Email: email, Password: password, Username: username}, &session)
	if err != nil {
		return nil, authFailure("register", err)
	}
	return &session, nil
}

// SignIn authenticates and installs the session on the client.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*entities.Session, error) {
	var session entities.Session
	if err := s.client.Post(ctx, "/auth/v1/token", credentials{Email: email, Password: password}, &session); err != nil {
		return nil, authFailure("sign in", err)
	}
	if session.AccessToken == "" || session.User == nil {
		return nil, authFailure("sign in", errors.New("backend returned an empty session"))
	}
	s.client.SetSession(&session)
	return &session, nil
}

// SignOut always drops the local session. Revoking it remotely is best effort;
// an already expired session is not an error, so signing out twice is fine.
func (s *AuthService) SignOut(ctx context.Context) error {
	if s.client.Session() == nil {
		return nil
	}
	err := s.client.Post(ctx, "/auth/v1/logout", nil, nil)
	s.client.ClearSession()

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return nil
	}
	if err != nil {
		slog.Warn("remote sign out failed", "error", err)
		return authFailure("sign out", err)
	}
	return nil
}

// GetCurrentUser returns the signed-in user or nil. It never fails; any
// problem reaching the backend reads as "no valid session".
func (s *AuthService) GetCurrentUser(ctx context.Context) *entities.User {
	if s.client.Session() == nil {
		return nil
	}
	var user entities.User
	if err := s.client.Get(ctx, "/auth/v1/user", nil, &user); err != nil {
		slog.Debug("current user lookup failed", "error", err)
		return nil
	}
	return &user
}

// GetProfile loads a user's profile row.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	var user entities.User
	if err := s.client.Get(ctx, "/rest/v1/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, persistence("get profile", err)
	}
	return &user, nil
}

// UpdateProfile changes only the supplied fields. A missing session or an
// edit to someone else's profile is an AuthError; transport and backend
// failures are PersistenceErrors.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd entities.ProfileUpdate) (*entities.User, error) {
	if s.client.Session() == nil {
		return nil, authFailure("update profile", ErrNoSession)
	}
	var user entities.User
	if err := s.client.Patch(ctx, "/rest/v1/users/"+url.PathEscape(userID), upd, &user); err != nil {
		return nil, ownerOnly("update profile", err)
	}
	return &user, nil
}
