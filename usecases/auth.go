package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"financehub/auth"
	"financehub/cache"
	"financehub/entities"
	"financehub/repositories"
)

type AuthUseCase struct {
	users    repositories.UserRepository
	tokens   *auth.Tokens
	sessions cache.SessionStore
}

func NewAuthUseCase(users repositories.UserRepository, tokens *auth.Tokens, sessions cache.SessionStore) *AuthUseCase {
	return &AuthUseCase{users: users, tokens: tokens, sessions: sessions}
}

// Register creates the identity and its profile row. The account starts
// unverified; a session is returned right away.
func (uc *AuthUseCase) Register(email, password, username string) (*entities.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("invalid email address")
	}
	if username == "" {
		return nil, invalid("username is required")
	}
	if len(password) < auth.MinPasswordLength {
		return nil, invalid("password should be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entities.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, fromRepo(err, "user already registered")
	}
	slog.Info("user registered", "user_id", user.ID, "pending_verification", !user.EmailVerified)
	return uc.session(user)
}

// Login checks the credentials and issues a new session.
func (uc *AuthUseCase) Login(email, password string) (*entities.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fromRepo(err, "load user")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return uc.session(user)
}

func (uc *AuthUseCase) session(user *entities.User) (*entities.Session, error) {
	signed, claims, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &entities.Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user,
	}, nil
}

// Authenticate resolves a bearer token into its claims, rejecting revoked
// tokens.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	revoked, err := uc.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if revoked {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Logout revokes the session's token until its natural expiry.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := uc.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// CurrentUser returns the profile behind an authenticated session.
func (uc *AuthUseCase) CurrentUser(claims *auth.Claims) (*entities.User, error) {
	user, err := uc.users.GetByID(claims.UserID())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fromRepo(err, "load user")
	}
	return user, nil
}

func (uc *AuthUseCase) GetProfile(userID string) (*entities.User, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, fromRepo(err, "user")
	}
	return user, nil
}

// UpdateProfile applies the supplied fields. Only the owner may change a
// profile.
func (uc *AuthUseCase) UpdateProfile(callerID, userID string, upd entities.ProfileUpdate) (*entities.User, error) {
	if callerID != userID {
		return nil, fmt.Errorf("%w: profile belongs to another user", ErrForbidden)
	}
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if name == "" {
			return nil, invalid("username cannot be empty")
		}
		upd.Username = &name
	}

	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, fromRepo(err, "user")
	}
	if upd.Empty() {
		return user, nil
	}
	upd.Apply(user)
	if err := uc.users.Update(user); err != nil {
		return nil, fromRepo(err, "username already taken")
	}
	return user, nil
}
