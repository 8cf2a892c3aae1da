// Package supplier manages the vendors gift cards are purchased from.
package supplier

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"cardvault/internal/models"
	"cardvault/internal/repositories"
)

// Service errors
var (
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrSupplierInUse    = errors.New("supplier has gift cards and cannot be deleted")
)

// CreateSupplierInput is the validated payload for CreateSupplier.
type CreateSupplierInput struct {
	Name        string `json:"nome" validate:"required"`
	Description string `json:"descricao,omitempty"`
	Website     string `json:"website,omitempty"`
	LogoURL     string `json:"logo,omitempty"`
	UserID      uint   `json:"userId"`
	CompanyID   uint   `json:"empresaId"`
}

// SupplierPatch carries the fields of an update. Nil fields leave the
// stored value untouched.
type SupplierPatch struct {
	Name        *string `json:"nome,omitempty"`
	Description *string `json:"descricao,omitempty"`
	Website     *string `json:"website,omitempty"`
	LogoURL     *string `json:"logo,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type Service interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error)
	GetSupplier(ctx context.Context, id, companyID uint) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, patch SupplierPatch) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id uint) error
	ListSuppliers(ctx context.Context, userID, companyID uint) ([]*models.Supplier, error)
}

type service struct {
	store    repositories.Store
	validate *validator.Validate
}

func NewService(store repositories.Store) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{store: store, validate: validator.New()}
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid supplier: %w", err)
	}

	sup := &models.Supplier{
		Name:        input.Name,
		Description: input.Description,
		Website:     input.Website,
		LogoURL:     input.LogoURL,
		Status:      models.SupplierStatusActive,
		UserID:      input.UserID,
		CompanyID:   input.CompanyID,
	}
	if err := s.store.Suppliers().Create(sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) GetSupplier(ctx context.Context, id, companyID uint) (*models.Supplier, error) {
	sup, err := s.store.Suppliers().GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	if companyID != 0 && sup.CompanyID != companyID {
		return nil, ErrSupplierNotFound
	}
	return sup, nil
}

func (s *service) UpdateSupplier(ctx context.Context, id uint, patch SupplierPatch) (*models.Supplier, error) {
	sup, err := s.store.Suppliers().GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}

	if patch.Status != nil {
		normalized := models.NormalizeGiftCardStatus(*patch.Status)
		if normalized != models.SupplierStatusActive {
			normalized = models.SupplierStatusInactive
		}
		patch.Status = &normalized
	}

	models.ApplyPatch(sup, &patch)
	if err := s.store.Suppliers().Update(sup); err != nil {
		return nil, err
	}
	return sup, nil
}

// DeleteSupplier removes a supplier. Deletion is blocked while gift cards
// reference it.
func (s *service) DeleteSupplier(ctx context.Context, id uint) error {
	if _, err := s.store.Suppliers().GetByID(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplierNotFound
		}
		return err
	}

	cards, err := s.store.GiftCards().List(func(g *models.GiftCard) bool {
		return g.SupplierID == id
	})
	if err != nil {
		return err
	}
	if len(cards) > 0 {
		return ErrSupplierInUse
	}

	return s.store.Suppliers().Delete(id)
}

func (s *service) ListSuppliers(ctx context.Context, userID, companyID uint) ([]*models.Supplier, error) {
	return s.store.Suppliers().List(func(sup *models.Supplier) bool {
		if userID != 0 && sup.UserID != userID {
			return false
		}
		if companyID != 0 && sup.CompanyID != companyID {
			return false
		}
		return true
	})
}
