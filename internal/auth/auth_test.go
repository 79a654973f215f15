package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbonduro/guides/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: 7, Username: "alice", DisplayName: "Alice", Role: domain.RoleAdmin}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "guides", time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	p, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, domain.RoleAdmin, p.Role)
}

func TestTokenClaims(t *testing.T) {
	issuer := NewTokenIssuer("secret", "guides", time.Hour)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "guides", claims.Issuer)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", "guides", time.Hour)
	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other", "guides", time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewTokenIssuer("secret", "someone-else", time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("secret", "guides", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			Issuer:    "guides",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHasher(t *testing.T) {
	h := &PasswordHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, h.Compare(hash, "s3cret!"))
	assert.False(t, h.Compare(hash, "wrong"))
	assert.False(t, h.Compare("not-a-hash", "s3cret!"))
}

type stubVerifier struct {
	principal *Principal
	err       error
	seen      string
}

func (s *stubVerifier) Verify(token string) (*Principal, error) {
	s.seen = token
	return s.principal, s.err
}

func serveWithAuth(t *testing.T, v Verifier, header string) (*Principal, bool) {
	t.Helper()
	var (
		got    *Principal
		called bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got = FromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Middleware(v, logger)(next).ServeHTTP(httptest.NewRecorder(), req)
	return got, called
}

func TestMiddleware(t *testing.T) {
	alice := &Principal{ID: 1, Username: "alice", Role: domain.RoleUser}

	t.Run("valid token", func(t *testing.T) {
		v := &stubVerifier{principal: alice}
		got, called := serveWithAuth(t, v, "Bearer abc")
		assert.True(t, called)
		assert.Equal(t, alice, got)
		assert.Equal(t, "abc", v.seen)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		got, _ := serveWithAuth(t, &stubVerifier{principal: alice}, "bearer abc")
		assert.Equal(t, alice, got)
	})

	t.Run("no header is anonymous", func(t *testing.T) {
		v := &stubVerifier{principal: alice}
		got, called := serveWithAuth(t, v, "")
		assert.True(t, called)
		assert.Nil(t, got)
		assert.Empty(t, v.seen)
	})

	t.Run("wrong scheme is anonymous", func(t *testing.T) {
		got, called := serveWithAuth(t, &stubVerifier{principal: alice}, "Basic abc")
		assert.True(t, called)
		assert.Nil(t, got)
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		got, called := serveWithAuth(t, &stubVerifier{err: errors.New("bad")}, "Bearer abc")
		assert.True(t, called)
		assert.Nil(t, got)
	})
}

func TestUserID(t *testing.T) {
	assert.Zero(t, UserID(context.Background()))
	ctx := WithPrincipal(context.Background(), &Principal{ID: 9})
	assert.Equal(t, int64(9), UserID(ctx))
}
