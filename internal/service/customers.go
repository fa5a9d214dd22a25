package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/storage"
)

// NewCustomer is the input for capturing a customer. Photo is a data: URL or
// an http(s) URL.
type NewCustomer struct {
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Photo        string               `json:"photo"`
	Measurements *domain.Measurements `json:"measurements,omitempty"`
}

func (c NewCustomer) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(c.Photo) == "" {
		return fmt.Errorf("%w: photo is required", domain.ErrValidation)
	}
	if !validImageRef(c.Photo) {
		return fmt.Errorf("%w: photo must be a data: or http(s) URL", domain.ErrValidation)
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: invalid email %q", domain.ErrValidation, email)
		}
	}
	return nil
}

type CustomerService struct {
	repo     domain.CustomerRepository
	uploader ImageUploader
}

func NewCustomerService(repo domain.CustomerRepository, uploader ImageUploader) *CustomerService {
	return &CustomerService{repo: repo, uploader: uploader}
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, loadErr("list customers", err)
	}
	return customers, nil
}

// Add uploads the photo and inserts the customer.
func (s *CustomerService) Add(ctx context.Context, in NewCustomer) (domain.Customer, error) {
	if err := in.validate(); err != nil {
		return domain.Customer{}, err
	}
	url, err := s.uploader.UploadRef(ctx, storage.CollectionCustomers, in.Photo)
	if err != nil {
		return domain.Customer{}, persistenceErr("upload customer photo", err)
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = domain.DefaultCustomerEmail
	}
	var measurements *domain.Measurements
	if m := in.Measurements; m != nil && (strings.TrimSpace(m.Height) != "" || strings.TrimSpace(m.Waist) != "") {
		measurements = &domain.Measurements{Height: strings.TrimSpace(m.Height), Waist: strings.TrimSpace(m.Waist)}
	}
	customer, err := s.repo.Create(ctx, domain.Customer{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PhotoURL:     url,
		Measurements: measurements,
	})
	if err != nil {
		return domain.Customer{}, persistenceErr("insert customer", err)
	}
	return customer, nil
}
