package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fnb-insights/internal/domain/auth"
)

// UserRepository looks up accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (auth.User, error)
	FindByID(ctx context.Context, id string) (auth.User, error)
}

// PasswordHasher verifies a password against its stored hash.
type PasswordHasher interface {
	Compare(hashed, plain string) bool
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(user auth.User) (auth.Token, error)
}

// LoginUseCase checks credentials and issues a token.
type LoginUseCase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	now    func() time.Time
}

func NewLoginUseCase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *LoginUseCase {
	return &LoginUseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User  auth.User
	Token auth.Token
}

// ErrInvalidCredentials covers both unknown accounts and wrong passwords so
// the API does not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (LoginResult, error) {
	var out LoginResult
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return out, errors.New("email and password required")
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return out, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return out, errors.New("account disabled")
	}
	if !uc.hasher.Compare(user.PasswordHash, input.Password) {
		return out, ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return out, fmt.Errorf("issue token: %w", err)
	}

	out.User = user
	out.Token = token
	return out, nil
}
