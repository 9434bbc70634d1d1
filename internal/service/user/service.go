package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"driphorizon/internal/domain"
	userrepo "driphorizon/internal/repository/user"
)

// ErrInvalidCredentials is returned when username/password do not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service handles user signup/login flows.
type Service struct {
	repo          userrepo.Repository
	adminUsername string
}

// New creates a Service. adminUsername names the single administrator account.
func New(repo userrepo.Repository, adminUsername string) *Service {
	return &Service{repo: repo, adminUsername: strings.TrimSpace(adminUsername)}
}

// Signup registers a new user. A taken username surfaces domain.ErrAlreadyExists.
// The administrator username is reserved for seed.Apply.
func (s *Service) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}
	if s.IsAdmin(username) {
		return nil, domain.ErrAlreadyExists
	}
	u, err := s.repo.Create(ctx, domain.User{Username: username, Password: password})
	if err != nil {
		return nil, domain.WrapStorage("create user", err)
	}
	return u, nil
}

// Login checks the credentials and returns the identity to attach to the session.
func (s *Service) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Identity{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, domain.WrapStorage("get user", err)
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return domain.Identity{UserID: u.ID, Username: u.Username, Admin: s.IsAdmin(u.Username)}, nil
}

func (s *Service) IsAdmin(username string) bool {
	return s.adminUsername != "" && username == s.adminUsername
}
