package httpserver

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"driphorizon/internal/domain"
	usersvc "driphorizon/internal/service/user"
)

type stubUserService struct {
	user     *domain.User
	identity domain.Identity
	signErr  error
	loginErr error
}

func (s *stubUserService) Signup(_ context.Context, username, _ string) (*domain.User, error) {
	if s.signErr != nil {
		return nil, s.signErr
	}
	if s.user != nil {
		return s.user, nil
	}
	return &domain.User{ID: 1, Username: username}, nil
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (domain.Identity, error) {
	return s.identity, s.loginErr
}

func TestSignupHandler_Created(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password leaked: %s", rec.Body.String())
	}
}

func TestSignupHandler_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.users.signErr = domain.ErrAlreadyExists
	rec := env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"pw"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if decode(t, rec)["message"] != "Username already exists." {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.users.loginErr = usersvc.ErrInvalidCredentials
	rec := env.do(t, http.MethodPost, "/login", `{"username":"alice","password":"bad"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLogout_KeepsDraftDropsIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.users.identity = domain.Identity{UserID: 7, Username: "alice"}
	env.do(t, http.MethodPost, "/login", `{"username":"alice","password":"pw"}`)
	env.do(t, http.MethodPost, "/cart/select/21", "")

	if rec := env.do(t, http.MethodPost, "/logout", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/orders", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
	rec := env.do(t, http.MethodGet, "/cart", "")
	if !strings.Contains(rec.Body.String(), `"productId":"21"`) {
		t.Fatalf("draft should survive logout: %s", rec.Body.String())
	}
}
