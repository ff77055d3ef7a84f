package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nixfunds/finance-api/internal/apperror"
	"github.com/nixfunds/finance-api/internal/logging"
	"github.com/nixfunds/finance-api/internal/password"
	"github.com/nixfunds/finance-api/internal/user"
)

const MsgInvalidEmail = "Invalid email"

// dummyHash is compared against when the email is unknown so that a failed
// login costs one bcrypt comparison either way.
var dummyHash = sync.OnceValue(func() string {
	h, err := password.Hash("dummy-Passw0rd!")
	if err != nil {
		panic(fmt.Sprintf("failed to hash dummy password: %v", err))
	}
	return h
})

// Session is returned by signup and login
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Service handles authentication business logic
type Service struct {
	users    user.Repository
	tokens   TokenService
	validate *validator.Validate
	logger   *logging.Logger
	tokenTTL time.Duration
}

func NewService(users user.Repository, tokens TokenService, logger *logging.Logger, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

// Signup registers a new account and issues a token for it. Every email and
// password violation is reported in one Validation error.
func (s *Service) Signup(ctx context.Context, email, pw string) (*Session, error) {
	email = user.NormalizeEmail(email)

	var violations []string
	if !s.validEmail(email) {
		violations = append(violations, MsgInvalidEmail)
	}
	violations = append(violations, password.Validate(pw)...)
	if len(violations) > 0 {
		return nil, apperror.NewValidation(violations...)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.NewEmailTaken()
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := password.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			s.logger.Warn("signup lost a race on a duplicate email")
			return nil, apperror.NewEmailTaken()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(u)
}

// Login checks credentials and issues a token. Unknown emails and wrong
// passwords produce the same error.
func (s *Service) Login(ctx context.Context, email, pw string) (*Session, error) {
	email = user.NormalizeEmail(email)

	var violations []string
	if !s.validEmail(email) {
		violations = append(violations, MsgInvalidEmail)
	}
	if len([]rune(pw)) < password.MinLength {
		violations = append(violations, password.MsgTooShort)
	}
	if len(violations) > 0 {
		return nil, apperror.NewValidation(violations...)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			password.Verify(pw, dummyHash())
			return nil, apperror.NewInvalidCredentials()
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !password.Verify(pw, u.PasswordHash) {
		return nil, apperror.NewInvalidCredentials()
	}

	return s.issue(u)
}

// IssueToken creates a token for an existing account without a password
// check. Only the admin CLI calls it.
func (s *Service) IssueToken(ctx context.Context, email string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.NewNotFound("User not found")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return s.issue(u)
}

func (s *Service) issue(u *user.User) (*Session, error) {
	token, err := s.tokens.CreateToken(u.ID, u.Email, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	return &Session{Token: token, Email: u.Email}, nil
}

func (s *Service) validEmail(email string) bool {
	return s.validate.Var(email, "required,email") == nil
}
