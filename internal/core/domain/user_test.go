package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUser_JSONMatchesPublicShape(t *testing.T) {
	u := User{
		ID:           "64b7f0c2a1b2c3d4e5f60718",
		Name:         "Sari",
		Email:        "sari@kampus.ac.id",
		PasswordHash: "$2a$10$hash",
		Role:         RoleUser,
		APIKey:       "0123456789abcdef0123456789abcdef",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)

	for _, key := range []string{`"apiKey"`, `"createdAt"`, `"updatedAt"`} {
		if !strings.Contains(body, key) {
			t.Errorf("expected %s in %s", key, body)
		}
	}
	for _, leak := range []string{"created_at", "updated_at", "$2a$10$hash", "password"} {
		if strings.Contains(body, leak) {
			t.Errorf("unexpected %q in %s", leak, body)
		}
	}
}

func TestUser_Public(t *testing.T) {
	u := &User{ID: "1", Name: "Sari", Email: "sari@kampus.ac.id", PasswordHash: "x", Role: RoleUser, APIKey: "k"}

	got := u.Public()
	want := PublicUser{ID: "1", Name: "Sari", Email: "sari@kampus.ac.id", Role: RoleUser, APIKey: "k"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
