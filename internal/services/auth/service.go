// Package auth provides the tenancy scaffolding: companies, permission
// profiles, user accounts and JWT issuance. Authorization itself happens
// in the middleware, which checks the permission list carried by the
// token against each route.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"cardvault/internal/models"
	"cardvault/internal/repositories"
)

// Service errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyHasUsers    = errors.New("company has users and cannot be deleted")
	ErrUserExists         = errors.New("user already exists")
)

const tokenTTL = 24 * time.Hour

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role"`
	ProfileID uint   `json:"perfilId"`
	CompanyID uint   `json:"empresaId"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	ParseToken(tokenString string) (*models.UserClaims, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateCompany(ctx context.Context, name, email string) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uint) error
	CreateProfile(ctx context.Context, companyID uint, name string, permissions []string) (*models.Profile, error)
}

type service struct {
	store     repositories.Store
	jwtSecret []byte
	validate  *validator.Validate
}

func NewService(store repositories.Store, jwtSecret string) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{store: store, jwtSecret: []byte(jwtSecret), validate: validator.New()}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	existing, err := s.store.Users().List(func(u *models.User) bool {
		return u.Email == input.Email || u.Username == input.Username
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = "user"
	}

	user := &models.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hash),
		Role:      role,
		Status:    "active",
		ProfileID: input.ProfileID,
		CompanyID: input.CompanyID,
	}
	if err := s.store.Users().Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	users, err := s.store.Users().List(func(u *models.User) bool {
		return u.Email == email
	})
	if err != nil {
		return "", nil, err
	}
	if len(users) == 0 {
		return "", nil, ErrInvalidCredentials
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	var permissions models.StringList
	if user.ProfileID != 0 {
		if profile, err := s.store.Profiles().GetByID(user.ProfileID); err == nil {
			permissions = profile.Permissions
		}
	}

	claims := &models.UserClaims{
		UserID:      user.ID,
		CompanyID:   user.CompanyID,
		Role:        user.Role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

func (s *service) ParseToken(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Validate the signing method.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users().GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) CreateCompany(ctx context.Context, name, email string) (*models.Company, error) {
	company := &models.Company{Name: name, Email: email, Status: "active"}
	if err := s.store.Companies().Create(company); err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany removes a company. Deletion is blocked while users belong
// to it.
func (s *service) DeleteCompany(ctx context.Context, id uint) error {
	if _, err := s.store.Companies().GetByID(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return err
	}

	users, err := s.store.Users().List(func(u *models.User) bool {
		return u.CompanyID == id
	})
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return ErrCompanyHasUsers
	}
	return s.store.Companies().Delete(id)
}

func (s *service) CreateProfile(ctx context.Context, companyID uint, name string, permissions []string) (*models.Profile, error) {
	profile := &models.Profile{
		Name:        name,
		Permissions: permissions,
		CompanyID:   companyID,
	}
	if err := s.store.Profiles().Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
