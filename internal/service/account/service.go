package account

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"greenhaven/internal/domain"
	"greenhaven/internal/notify"
	tokenrepo "greenhaven/internal/repository/token"
	userrepo "greenhaven/internal/repository/user"
	"greenhaven/internal/repository/verification"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles signup, login, token validation, and profile management.
type Service struct {
	users         userrepo.Repository
	tokens        *tokenManager
	verifications verification.Repository
	publisher     *notify.Publisher
	accessTTL     time.Duration
	refreshTTL    time.Duration
	verifyTTL     time.Duration
	passwordMin   int
}

func New(users userrepo.Repository, tokens tokenrepo.Repository, verifications verification.Repository, publisher *notify.Publisher) *Service {
	return &Service{
		users:         users,
		tokens:        newTokenManager(tokens),
		verifications: verifications,
		publisher:     publisher,
		accessTTL:     48 * time.Hour,
		refreshTTL:    30 * 24 * time.Hour,
		verifyTTL:     24 * time.Hour,
		passwordMin:   8,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Signup registers a new user and queues an email verification event.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		DateOfBirth:  in.DateOfBirth,
	})
	if err != nil {
		return nil, err
	}

	if err := s.requestVerification(ctx, u.Email); err != nil {
		// Signup already committed; verification can be re-requested later.
		log.Printf("account: verification request for %s failed: %v", u.Email, err)
	}
	return u, nil
}

// Login validates credentials and returns the user plus access and refresh
// tokens.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, u.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// Logout revokes the given access token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Profile returns the stored user.
func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile patches the mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in userrepo.UpdateInput) (*domain.User, error) {
	return s.users.Update(ctx, userID, in)
}

// VerifyEmail consumes a verification token and flags the account verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.verifications.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return s.users.MarkEmailVerified(ctx, email)
}

// RequestVerification issues a fresh verification token for the email.
func (s *Service) RequestVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return err
	}
	return s.requestVerification(ctx, email)
}

func (s *Service) requestVerification(ctx context.Context, email string) error {
	token, err := randomToken()
	if err != nil {
		return err
	}
	if err := s.verifications.Create(ctx, token, email, time.Now().Add(s.verifyTTL)); err != nil {
		return err
	}
	return s.publisher.Publish(ctx, notify.KeyEmailVerificationRequired, notify.VerificationEvent{
		Email: email,
		Token: token,
	})
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
