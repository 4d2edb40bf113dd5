package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/metrics"
	"github.com/iliyamo/waste-pickup/internal/model"
	"github.com/iliyamo/waste-pickup/internal/repository"
	"github.com/iliyamo/waste-pickup/internal/utils"
)

// UserStore is the persistence needed for end-user accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AdminStore is the persistence needed for the admin singleton.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
}

// Identity is an authenticated principal.
type Identity struct {
	ID    uint64
	Role  string
	Name  string
	Email string
}

// RegisterRequest is the body of POST /api/users/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// CredentialStore registers users and checks user and admin passwords.
// Raw passwords are hashed here and never leave this type.
type CredentialStore struct {
	users    UserStore
	admins   AdminStore
	cost     int
	validate *validator.Validate
	now      func() time.Time
}

func NewCredentialStore(users UserStore, admins AdminStore, bcryptCost int) *CredentialStore {
	return &CredentialStore{
		users:    users,
		admins:   admins,
		cost:     bcryptCost,
		validate: NewValidator(time.Now),
		now:      time.Now,
	}
}

// RegisterUser creates an account and returns its id.  An email already in
// use yields DUPLICATE_IDENTITY.
func (s *CredentialStore) RegisterUser(ctx context.Context, req RegisterRequest) (uint64, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validate(s.validate, req); err != nil {
		return 0, err
	}

	hash, err := utils.HashPassword(req.Password, s.cost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return 0, apperror.FieldError("password", "must be at most 72 bytes")
		}
		return 0, apperror.Persistence("could not register user", err)
	}

	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return 0, apperror.DuplicateIdentity("email already registered")
		}
		return 0, apperror.Persistence("could not register user", err)
	}
	return u.ID, nil
}

// VerifyUser checks an email/password pair.  Unknown email and wrong
// password fail identically.
func (s *CredentialStore) VerifyUser(ctx context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.IncAuthAttempt(model.RoleUser, false)
		return Identity{}, apperror.Unauthorized("invalid credentials")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return Identity{}, apperror.Persistence("could not verify credentials", err)
		}
		utils.BurnPasswordCheck(password, s.cost)
		metrics.IncAuthAttempt(model.RoleUser, false)
		return Identity{}, apperror.Unauthorized("invalid credentials")
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		metrics.IncAuthAttempt(model.RoleUser, false)
		return Identity{}, apperror.Unauthorized("invalid credentials")
	}

	metrics.IncAuthAttempt(model.RoleUser, true)
	return Identity{ID: u.ID, Role: model.RoleUser, Name: u.Name, Email: u.Email}, nil
}

// VerifyAdmin checks the admin password.
func (s *CredentialStore) VerifyAdmin(ctx context.Context, password string) (Identity, error) {
	a, err := s.admins.GetByUsername(ctx, model.AdminUsername)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return Identity{}, apperror.Persistence("could not verify credentials", err)
		}
		utils.BurnPasswordCheck(password, s.cost)
		metrics.IncAuthAttempt(model.RoleAdmin, false)
		return Identity{}, apperror.Unauthorized("invalid credentials")
	}
	if password == "" || !utils.VerifyPassword(a.PasswordHash, password) {
		metrics.IncAuthAttempt(model.RoleAdmin, false)
		return Identity{}, apperror.Unauthorized("invalid credentials")
	}

	metrics.IncAuthAttempt(model.RoleAdmin, true)
	return Identity{ID: a.ID, Role: model.RoleAdmin, Name: a.Username}, nil
}

// EnsureAdmin seeds the admin row when it is missing.  It reports whether a
// row was created; losing a concurrent seed race counts as already seeded.
func (s *CredentialStore) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	if _, err := s.admins.GetByUsername(ctx, model.AdminUsername); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, apperror.Persistence("could not load admin", err)
	}

	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return false, apperror.Persistence("could not hash admin password", err)
	}
	a := &model.Admin{Username: model.AdminUsername, PasswordHash: hash, CreatedAt: s.now().UTC()}
	if err := s.admins.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrAdminExists) {
			return false, nil
		}
		return false, apperror.Persistence("could not seed admin", err)
	}
	return true, nil
}

// User loads a registered user by id.
func (s *CredentialStore) User(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, apperror.NotFound("user")
		}
		return model.User{}, apperror.Persistence("could not load user", err)
	}
	return u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
