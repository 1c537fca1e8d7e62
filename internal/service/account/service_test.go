package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"greenhaven/internal/domain"
	tokenrepo "greenhaven/internal/repository/token"
	userrepo "greenhaven/internal/repository/user"

	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	created      *domain.User
	createErr    error
	lastCreated  domain.User
	byEmail      *domain.User
	byEmailErr   error
	byID         *domain.User
	byIDErr      error
	verifiedMail string
	verifyErr    error
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	s.lastCreated = u
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	out := u
	out.ID = "u1"
	return &out, nil
}

func (s *stubUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return s.byID, s.byIDErr
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return s.byEmail, s.byEmailErr
}

func (s *stubUserRepo) Update(context.Context, string, userrepo.UpdateInput) (*domain.User, error) {
	return s.byID, s.byIDErr
}

func (s *stubUserRepo) MarkEmailVerified(_ context.Context, email string) error {
	s.verifiedMail = email
	return s.verifyErr
}

type stubTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (s *stubTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := s.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	s.tokens[t.Token] = t
	return nil
}

func (s *stubTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	if t, ok := s.tokens[token]; ok {
		return &t, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubTokenRepo) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

type stubVerificationRepo struct {
	created map[string]string
	consume map[string]string
}

func newStubVerificationRepo() *stubVerificationRepo {
	return &stubVerificationRepo{created: make(map[string]string), consume: make(map[string]string)}
}

func (s *stubVerificationRepo) Create(_ context.Context, token, email string, _ time.Time) error {
	s.created[token] = email
	return nil
}

func (s *stubVerificationRepo) Consume(_ context.Context, token string) (string, error) {
	if email, ok := s.consume[token]; ok {
		return email, nil
	}
	return "", domain.ErrNotFound
}

func newTestService(users *stubUserRepo) (*Service, *stubTokenRepo, *stubVerificationRepo) {
	tokens := newStubTokenRepo()
	verifications := newStubVerificationRepo()
	return New(users, tokens, verifications, nil), tokens, verifications
}

func TestSignupPasswordValidation(t *testing.T) {
	svc, _, _ := newTestService(&stubUserRepo{})
	cases := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, password := range cases {
		_, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: password})
		if err == nil {
			t.Fatalf("password %q: expected validation error", password)
		}
	}
}

func TestSignupNormalizesEmail(t *testing.T) {
	users := &stubUserRepo{}
	svc, _, verifications := newTestService(users)

	u, err := svc.Signup(context.Background(), SignupInput{Email: "  Ada@Example.COM ", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.lastCreated.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %s", users.lastCreated.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users.lastCreated.PasswordHash), []byte("Sup3rSecret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if len(verifications.created) != 1 {
		t.Fatalf("expected one verification token, got %d", len(verifications.created))
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := &stubUserRepo{createErr: domain.ErrAlreadyExists}
	svc, _, _ := newTestService(users)
	_, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: "Sup3rSecret"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	users := &stubUserRepo{byEmailErr: domain.ErrNotFound}
	svc, _, _ := newTestService(users)
	_, _, _, err := svc.Login(context.Background(), "a@b.c", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("RightPass1"), bcrypt.MinCost)
	users = &stubUserRepo{byEmail: &domain.User{ID: "u1", PasswordHash: string(hash)}}
	svc, _, _ = newTestService(users)
	_, _, _, err = svc.Login(context.Background(), "a@b.c", "WrongPass1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for bad password, got %v", err)
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("RightPass1"), bcrypt.MinCost)
	users := &stubUserRepo{byEmail: &domain.User{ID: "u1", PasswordHash: string(hash)}}
	tokens := newStubTokenRepo()
	svc := New(users, tokens, newStubVerificationRepo(), nil)

	u, access, refresh, err := svc.Login(context.Background(), "a@b.c", "RightPass1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" || access == "" || refresh == "" || access == refresh {
		t.Fatalf("unexpected login result")
	}
	if tokens.tokens[access].Kind != "access" || tokens.tokens[refresh].Kind != "refresh" {
		t.Fatalf("token kinds not persisted")
	}
}

func TestLookupByToken(t *testing.T) {
	users := &stubUserRepo{byID: &domain.User{ID: "u1"}}
	tokens := newStubTokenRepo()
	svc := New(users, tokens, newStubVerificationRepo(), nil)

	_, err := svc.LookupByToken(context.Background(), "unknown")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	tokens.tokens["expired"] = tokenrepo.Token{Token: "expired", UserID: "u1", Kind: "access", ExpiresAt: time.Now().Add(-time.Hour)}
	_, err = svc.LookupByToken(context.Background(), "expired")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for expired, got %v", err)
	}
	if _, ok := tokens.tokens["expired"]; ok {
		t.Fatalf("expired token should be deleted on validation")
	}

	tokens.tokens["refresh"] = tokenrepo.Token{Token: "refresh", UserID: "u1", Kind: "refresh", ExpiresAt: time.Now().Add(time.Hour)}
	_, err = svc.LookupByToken(context.Background(), "refresh")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh tokens must not authenticate, got %v", err)
	}

	tokens.tokens["good"] = tokenrepo.Token{Token: "good", UserID: "u1", Kind: "access", ExpiresAt: time.Now().Add(time.Hour)}
	u, err := svc.LookupByToken(context.Background(), "good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestVerifyEmail(t *testing.T) {
	users := &stubUserRepo{}
	verifications := newStubVerificationRepo()
	verifications.consume["tok"] = "ada@example.com"
	svc := New(users, newStubTokenRepo(), verifications, nil)

	if err := svc.VerifyEmail(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.verifiedMail != "ada@example.com" {
		t.Fatalf("user not marked verified")
	}

	err := svc.VerifyEmail(context.Background(), "bogus")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
