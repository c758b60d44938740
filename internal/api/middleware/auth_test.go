package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusevent/campusevent-api/internal/core/domain"
	"github.com/campusevent/campusevent-api/internal/core/ports"
)

type stubAuthenticator struct {
	users   map[string]*domain.User // token -> user
	keys    map[string]*domain.User // api key -> user
	expired map[string]bool
	err     error
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.expired[token] {
		return nil, domain.ErrTokenExpired
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: bad signature", domain.ErrInvalidCredential)
}

func (s *stubAuthenticator) AuthorizeAPIKey(ctx context.Context, key string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if key == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if u, ok := s.keys[key]; ok {
		return u, nil
	}
	return nil, domain.ErrInvalidAPIKey
}

var alice = &domain.User{ID: "65f0000000000000000000a1", Name: "Alice", APIKey: "alice-key"}

func newStub() *stubAuthenticator {
	return &stubAuthenticator{
		users:   map[string]*domain.User{"good": alice},
		keys:    map[string]*domain.User{"alice-key": alice},
		expired: map[string]bool{"old": true},
	}
}

func runSession(t *testing.T, auth ports.Authenticator, header string) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	h := Session(auth, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return called, err
}

func TestSession_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	c := e.NewContext(req, httptest.NewRecorder())

	var got domain.AuthContext
	h := Session(newStub(), zerolog.Nop())(func(c echo.Context) error {
		auth, ok := AuthFrom(c.Request().Context())
		if !ok {
			t.Fatalf("auth context not attached")
		}
		got = auth
		return nil
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID() != alice.ID {
		t.Fatalf("expected user %s, got %s", alice.ID, got.UserID())
	}
}

func TestSession_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingCredential},
		{"wrong scheme", "Token good", domain.ErrMalformedCredential},
		{"lowercase scheme", "bearer good", domain.ErrMalformedCredential},
		{"scheme only", "Bearer", domain.ErrMalformedCredential},
		{"empty value", "Bearer ", domain.ErrMalformedCredential},
		{"extra part", "Bearer good extra", domain.ErrMalformedCredential},
		{"garbage token", "Bearer not.a.jwt", domain.ErrInvalidCredential},
		{"expired token", "Bearer old", domain.ErrTokenExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called, err := runSession(t, newStub(), tc.header)
			if called {
				t.Fatalf("next must not be called")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSession_StoreFailurePassesThrough(t *testing.T) {
	stub := newStub()
	stub.err = fmt.Errorf("authenticate: %w", domain.ErrStoreUnavailable)

	called, err := runSession(t, stub, "Bearer good")
	if called {
		t.Fatalf("next must not be called")
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func runAPIKey(t *testing.T, auth ports.Authenticator, target, header string, session *domain.User) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	if header != "" {
		req.Header.Set(APIKeyHeader, header)
	}
	if session != nil {
		req = req.WithContext(WithAuth(req.Context(), domain.AuthContext{User: session}))
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	h := APIKey(auth, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return nil
	})
	err := h(c)
	return called, err
}

func TestAPIKey(t *testing.T) {
	bob := &domain.User{ID: "65f0000000000000000000b2"}

	cases := []struct {
		name    string
		target  string
		header  string
		session *domain.User
		want    error
	}{
		{name: "header", target: "/events/1", header: "alice-key", session: alice},
		{name: "query fallback", target: "/events/1?token=alice-key", session: alice},
		{name: "header wins over query", target: "/events/1?token=wrong", header: "alice-key", session: alice},
		{name: "owner differs from session", target: "/events/1", header: "alice-key", session: bob},
		{name: "missing", target: "/events/1", session: alice, want: domain.ErrMissingAPIKey},
		{name: "unknown key", target: "/events/1", header: "nope", session: alice, want: domain.ErrInvalidAPIKey},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called, err := runAPIKey(t, newStub(), tc.target, tc.header, tc.session)
			if tc.want == nil {
				if err != nil || !called {
					t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
				}
				return
			}
			if called {
				t.Fatalf("next must not be called")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, err := bearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("unexpected result %q %v", token, err)
	}
}
