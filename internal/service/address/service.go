package address

import (
	"context"
	"strings"

	"greenhaven/internal/domain"
)

type Service struct {
	repo addressRepo
}

type addressRepo interface {
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, a domain.Address) (*domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
}

func New(repo addressRepo) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Type       string `json:"type"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Company    string `json:"company"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"isDefault"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Address1) == "" ||
		strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.PostalCode) == "" ||
		strings.TrimSpace(in.Country) == "" {
		return domain.ErrInvalidAddress
	}
	return nil
}

func (in Input) toDomain(userID, id string) domain.Address {
	addrType := strings.ToUpper(strings.TrimSpace(in.Type))
	if addrType == "" {
		addrType = "HOME"
	}
	return domain.Address{
		ID:         id,
		UserID:     userID,
		Type:       addrType,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Company:    in.Company,
		Address1:   in.Address1,
		Address2:   in.Address2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Phone:      in.Phone,
		IsDefault:  in.IsDefault,
	}
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (*domain.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in.toDomain(userID, ""))
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (*domain.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, in.toDomain(userID, id))
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}
