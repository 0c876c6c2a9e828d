package local

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memCredentials struct {
	mu      sync.Mutex
	byEmail map[string]*Credential
}

func (m *memCredentials) Create(_ context.Context, c *Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[c.Email]; ok {
		return domain.ErrEmailInUse
	}
	m.byEmail[c.Email] = c
	return nil
}

func (m *memCredentials) FindByEmail(_ context.Context, email string) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *memCredentials) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, c := range m.byEmail {
		if c.UserID == userID {
			delete(m.byEmail, email)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memSessions struct {
	mu     sync.Mutex
	byID   map[string]string
	failOn string
}

func (m *memSessions) Save(_ context.Context, s *domain.Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "save" {
		return errors.New("redis down")
	}
	m.byID[s.ID] = s.UserID
	return nil
}

func (m *memSessions) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok, nil
}

func (m *memSessions) Delete(_ context.Context, _, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memSessions) DeleteAll(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, uid := range m.byID {
		if uid == userID {
			delete(m.byID, id)
		}
	}
	return nil
}

func newTestProvider() (*Provider, *memCredentials, *memSessions) {
	creds := &memCredentials{byEmail: map[string]*Credential{}}
	sessions := &memSessions{byID: map[string]string{}}
	p := NewProvider(creds, sessions, "test-secret", time.Hour, logger.NewNop())
	p.bcryptCost = bcrypt.MinCost
	return p, creds, sessions
}

func TestProvider_CreateIdentity(t *testing.T) {
	ctx := context.Background()
	p, creds, _ := newTestProvider()

	identity, err := p.CreateIdentity(ctx, "driver@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, identity.UserID)
	assert.NotEqual(t, "secret1", creds.byEmail["driver@example.com"].PasswordHash)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "Taken", email: "driver@example.com", password: "secret1", want: domain.ErrEmailInUse},
		{name: "BadEmail", email: "not-an-email", password: "secret1", want: domain.ErrInvalidEmail},
		{name: "DisplayNameEmail", email: "Driver <d@example.com>", password: "secret1", want: domain.ErrInvalidEmail},
		{name: "Weak", email: "new@example.com", password: "12345", want: domain.ErrWeakPassword},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.CreateIdentity(ctx, tc.email, tc.password)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProvider_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	p, creds, sessions := newTestProvider()
	identity, err := p.CreateIdentity(ctx, "driver@example.com", "secret1")
	require.NoError(t, err)

	_, err = p.Authenticate(ctx, "driver@example.com", "wrong-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = p.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	session, err := p.Authenticate(ctx, "driver@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, session.UserID)
	assert.NotEmpty(t, session.Token)

	verified, err := p.VerifySession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, verified.ID)
	assert.Equal(t, "driver@example.com", verified.Email)

	require.NoError(t, p.EndSession(ctx, session))
	_, err = p.VerifySession(ctx, session.Token)
	assert.ErrorIs(t, err, domain.ErrNoCurrentUser)

	second, err := p.Authenticate(ctx, "driver@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, p.DeleteIdentity(ctx, second))
	assert.Empty(t, sessions.byID)
	assert.Empty(t, creds.byEmail)
	_, err = p.Authenticate(ctx, "driver@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.NoError(t, p.AdminDeleteIdentity(ctx, identity.UserID))
}

func TestProvider_AuthenticateDisabled(t *testing.T) {
	ctx := context.Background()
	p, creds, _ := newTestProvider()
	_, err := p.CreateIdentity(ctx, "banned@example.com", "secret1")
	require.NoError(t, err)
	creds.byEmail["banned@example.com"].Disabled = true

	_, err = p.Authenticate(ctx, "banned@example.com", "secret1")

	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
}

func TestProvider_AuthenticateUnknownEmailStillComparesHash(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newTestProvider()
	var compared [][]byte
	p.compareHash = func(hash, password []byte) error {
		compared = append(compared, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, err := p.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = p.Authenticate(ctx, "ghost@example.com", "secret2")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.Len(t, compared, 2)
	assert.Equal(t, compared[0], compared[1])
	cost, err := bcrypt.Cost(compared[0])
	require.NoError(t, err)
	assert.Equal(t, p.bcryptCost, cost)
}

func TestProvider_AuthenticateRejectsMalformedEmail(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newTestProvider()
	p.compareHash = func(_, _ []byte) error {
		t.Fatal("password must not be checked for a malformed email")
		return nil
	}

	for _, email := range []string{"not-an-email", "Driver <d@example.com>", ""} {
		_, err := p.Authenticate(ctx, email, "secret1")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail, email)
	}
}

func TestProvider_AuthenticateSessionStoreDown(t *testing.T) {
	ctx := context.Background()
	p, _, sessions := newTestProvider()
	_, err := p.CreateIdentity(ctx, "driver@example.com", "secret1")
	require.NoError(t, err)
	sessions.failOn = "save"

	_, err = p.Authenticate(ctx, "driver@example.com", "secret1")

	assert.ErrorIs(t, err, domain.ErrAuthUnknown)
}

func TestProvider_VerifySessionRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newTestProvider()

	sign := func(method jwt.SigningMethod, key interface{}, claims *Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() *Claims {
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ID:        "s1",
			Subject:   "u1",
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	otherIssuer := valid()
	otherIssuer.Issuer = "someone-else"

	tokens := map[string]string{
		"Garbage":     "not.a.token",
		"WrongSecret": sign(jwt.SigningMethodHS256, []byte("other-secret"), valid()),
		"WrongAlg":    sign(jwt.SigningMethodHS512, []byte("test-secret"), valid()),
		"Expired":     sign(jwt.SigningMethodHS256, []byte("test-secret"), expired),
		"OtherIssuer": sign(jwt.SigningMethodHS256, []byte("test-secret"), otherIssuer),
		"NotStored":   sign(jwt.SigningMethodHS256, []byte("test-secret"), valid()),
	}
	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			_, err := p.VerifySession(ctx, token)
			assert.ErrorIs(t, err, domain.ErrNoCurrentUser)
		})
	}
}
