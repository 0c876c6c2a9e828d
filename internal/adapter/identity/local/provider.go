// Package local is a self-hosted identity provider: bcrypt password hashes
// in MongoDB, HS256 session tokens and a Redis session allow-list.
package local

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	tokenIssuer       = "carmarket-service"

	// hashed once per provider so unknown emails cost as much as wrong passwords
	unknownUserPassword = "carmarket-unknown-user"
)

type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
}

// CredentialStore persists credentials. Create returns domain.ErrEmailInUse
// for a taken address; lookups return domain.ErrNotFound when nothing matches.
type CredentialStore interface {
	Create(ctx context.Context, cred *Credential) error
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	Delete(ctx context.Context, userID string) error
}

// SessionStore tracks live sessions so tokens can be revoked before expiry.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, userID, sessionID string) error
	DeleteAll(ctx context.Context, userID string) error
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Provider struct {
	credentials CredentialStore
	sessions    SessionStore
	secret      []byte
	ttl         time.Duration
	bcryptCost  int
	logger      *logger.Logger
	now         func() time.Time
	compareHash func(hash, password []byte) error

	dummyOnce sync.Once
	dummyHash []byte
}

func NewProvider(credentials CredentialStore, sessions SessionStore, secret string, ttl time.Duration, log *logger.Logger) *Provider {
	return &Provider{
		credentials: credentials,
		sessions:    sessions,
		secret:      []byte(secret),
		ttl:         ttl,
		bcryptCost:  bcrypt.DefaultCost,
		logger:      log.Named("LocalIdentityProvider"),
		now:         func() time.Time { return time.Now().UTC() },
		compareHash: bcrypt.CompareHashAndPassword,
	}
}

// validateEmail accepts a bare address only, without a display name.
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return domain.NewAuthError(domain.AuthInvalidEmail, err)
	}
	if addr.Address != email {
		return domain.NewAuthError(domain.AuthInvalidEmail, nil)
	}
	return nil
}

// unknownUserHash is generated lazily at the configured cost.
func (p *Provider) unknownUserHash() []byte {
	p.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(unknownUserPassword), p.bcryptCost)
		if err != nil {
			p.logger.Error("Failed to prepare placeholder hash", zap.Error(err))
			return
		}
		p.dummyHash = hash
	})
	return p.dummyHash
}

func (p *Provider) CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, domain.NewAuthError(domain.AuthWeakPassword, fmt.Errorf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthWeakPassword, err)
	}

	cred := &Credential{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    p.now(),
	}
	if err := p.credentials.Create(ctx, cred); err != nil {
		return nil, err
	}
	p.logger.Info("Identity created", zap.String("user_id", cred.UserID))
	return &domain.Identity{UserID: cred.UserID, Email: cred.Email}, nil
}

func (p *Provider) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	cred, err := p.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = p.compareHash(p.unknownUserHash(), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.NewAuthError(domain.AuthUnknown, err)
	}
	if err := p.compareHash([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if cred.Disabled {
		return nil, domain.ErrAccountDisabled
	}

	session, err := p.issue(cred)
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthUnknown, err)
	}
	if err := p.sessions.Save(ctx, session, p.ttl); err != nil {
		p.logger.Error("Failed to store session", zap.String("user_id", cred.UserID), zap.Error(err))
		return nil, domain.NewAuthError(domain.AuthUnknown, err)
	}
	return session, nil
}

func (p *Provider) issue(cred *Credential) (*domain.Session, error) {
	now := p.now()
	expires := now.Add(p.ttl)
	claims := &Claims{
		Email: cred.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   cred.UserID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &domain.Session{
		ID:        claims.ID,
		UserID:    cred.UserID,
		Email:     cred.Email,
		Token:     signed,
		ExpiresAt: expires,
	}, nil
}

func (p *Provider) VerifySession(ctx context.Context, token string) (*domain.Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.NewAuthError(domain.AuthNoCurrentUser, err)
	}

	live, err := p.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthUnknown, err)
	}
	if !live {
		return nil, domain.NewAuthError(domain.AuthNoCurrentUser, errors.New("session revoked"))
	}

	session := &domain.Session{
		ID:     claims.ID,
		UserID: claims.Subject,
		Email:  claims.Email,
		Token:  token,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (p *Provider) EndSession(ctx context.Context, session *domain.Session) error {
	if err := p.sessions.Delete(ctx, session.UserID, session.ID); err != nil {
		return domain.NewAuthError(domain.AuthUnknown, err)
	}
	return nil
}

func (p *Provider) DeleteIdentity(ctx context.Context, session *domain.Session) error {
	return p.AdminDeleteIdentity(ctx, session.UserID)
}

// AdminDeleteIdentity removes the credential and revokes every session of
// the user. A missing credential counts as already deleted.
func (p *Provider) AdminDeleteIdentity(ctx context.Context, userID string) error {
	if err := p.credentials.Delete(ctx, userID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.NewAuthError(domain.AuthUnknown, err)
	}
	if err := p.sessions.DeleteAll(ctx, userID); err != nil {
		p.logger.Warn("Failed to revoke sessions of deleted identity", zap.String("user_id", userID), zap.Error(err))
	}
	p.logger.Info("Identity deleted", zap.String("user_id", userID))
	return nil
}
