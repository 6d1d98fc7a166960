package auth

import (
	"context"
	"testing"
	"time"

	"crateDigger/pkg/utils"
)

type fakeTokenRepo struct {
	stored  map[string]string
	revoked []string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{stored: make(map[string]string)}
}

func (f *fakeTokenRepo) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	f.stored[token] = userID
	return nil
}

func (f *fakeTokenRepo) ValidateToken(ctx context.Context, token string) (string, error) {
	return f.stored[token], nil
}

func (f *fakeTokenRepo) RevokeToken(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	delete(f.stored, token)
	return nil
}

func testService(t *testing.T, repo TokenRepository) *AuthService {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := utils.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return NewAuthService("digger", string(hash), repo)
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := testService(t, repo)

	token, err := svc.Login(context.Background(), "digger", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}
	if repo.stored[token] != "digger" {
		t.Errorf("token not stored in session repo")
	}

	claims, err := utils.ParseJWT(token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != "digger" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v, want digger/admin", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := testService(t, newFakeTokenRepo())

	if _, err := svc.Login(context.Background(), "digger", "wrong"); err == nil {
		t.Errorf("wrong password should be rejected")
	}
	if _, err := svc.Login(context.Background(), "intruder", "correct horse"); err == nil {
		t.Errorf("unknown username should be rejected")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := newFakeTokenRepo()
	svc := testService(t, repo)

	token, err := svc.Login(context.Background(), "digger", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if len(repo.revoked) != 1 || repo.revoked[0] != token {
		t.Errorf("token not revoked")
	}
}
