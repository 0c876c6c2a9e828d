package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	AdminCode       string `json:"admin_code,omitempty"`
}

func (in *RegisterInput) normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.AdminCode = strings.TrimSpace(in.AdminCode)
}

func (in RegisterInput) validate() error {
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" || in.Phone == "" {
		return fmt.Errorf("%w: all fields are required", domain.ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	return nil
}

type LoginResult struct {
	Session *domain.Session
	Profile *domain.Profile
}

// AuthUsecase is the identity gateway: it keeps the identity provider and the
// profile store in step.
type AuthUsecase struct {
	identities domain.IdentityProvider
	profiles   domain.ProfileRepository
	adminCode  string
	logger     *logger.Logger
	now        Clock
}

// NewAuthUsecase builds the gateway. An empty adminCode disables admin
// self-registration.
func NewAuthUsecase(identities domain.IdentityProvider, profiles domain.ProfileRepository, adminCode string, log *logger.Logger) *AuthUsecase {
	return &AuthUsecase{
		identities: identities,
		profiles:   profiles,
		adminCode:  adminCode,
		logger:     log.Named("AuthUsecase"),
		now:        systemClock,
	}
}

// Register creates the identity and then its profile. When the profile
// cannot be written the identity is deleted again; if that also fails a
// *domain.PartialFailureError is returned.
func (uc *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*domain.Profile, error) {
	in.normalize()
	uc.logger.Info("Registering user", zap.String("email", in.Email), zap.Bool("admin_code", in.AdminCode != ""))

	if err := in.validate(); err != nil {
		return nil, err
	}
	role := domain.RoleUser
	if in.AdminCode != "" {
		if uc.adminCode == "" || subtle.ConstantTimeCompare([]byte(in.AdminCode), []byte(uc.adminCode)) != 1 {
			uc.logger.Warn("Invalid admin registration code", zap.String("email", in.Email))
			return nil, fmt.Errorf("%w: invalid admin code", domain.ErrForbidden)
		}
		role = domain.RoleAdmin
	}

	identity, err := uc.identities.CreateIdentity(ctx, in.Email, in.Password)
	if err != nil {
		uc.logger.Warn("Identity creation failed", zap.String("email", in.Email), zap.Error(err))
		return nil, asAuthError(err)
	}

	now := uc.now()
	profile := &domain.Profile{
		UserID:    identity.UserID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Email:     identity.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.profiles.Create(ctx, profile); err != nil {
		uc.logger.Error("Profile creation failed, rolling back identity", zap.String("user_id", identity.UserID), zap.Error(err))
		if compErr := uc.identities.AdminDeleteIdentity(ctx, identity.UserID); compErr != nil {
			uc.logger.Error("Identity rollback failed", zap.String("user_id", identity.UserID), zap.Error(compErr))
			return nil, &domain.PartialFailureError{Step: "create profile", Cause: err, CompensationErr: compErr}
		}
		return nil, fmt.Errorf("registration rolled back: %w", err)
	}

	uc.logger.Info("User registered", zap.String("user_id", profile.UserID), zap.String("role", string(role)))
	return profile, nil
}

// Login authenticates and loads the profile. A valid identity without a
// profile yields ErrProfileNotFound and the fresh session is ended.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uc.logger.Info("Login attempt", zap.String("email", email))

	session, err := uc.identities.Authenticate(ctx, email, password)
	if err != nil {
		uc.logger.Warn("Authentication failed", zap.String("email", email), zap.Error(err))
		return nil, asAuthError(err)
	}

	profile, err := uc.profiles.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("Identity has no profile", zap.String("user_id", session.UserID))
			if endErr := uc.identities.EndSession(ctx, session); endErr != nil {
				uc.logger.Warn("Failed to end orphan session", zap.String("user_id", session.UserID), zap.Error(endErr))
			}
			return nil, domain.ErrProfileNotFound
		}
		uc.logger.Error("Failed to load profile on login", zap.String("user_id", session.UserID), zap.Error(err))
		return nil, err
	}
	return &LoginResult{Session: session, Profile: profile}, nil
}

func (uc *AuthUsecase) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrNoCurrentUser
	}
	uc.logger.Info("Logout", zap.String("user_id", session.UserID))
	if err := uc.identities.EndSession(ctx, session); err != nil {
		return asAuthError(err)
	}
	return nil
}

// DeleteCurrentAccount deletes only the identity behind session. The
// profile has to be removed by the caller beforehand.
func (uc *AuthUsecase) DeleteCurrentAccount(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrNoCurrentUser
	}
	uc.logger.Info("Deleting current identity", zap.String("user_id", session.UserID))
	if err := uc.identities.DeleteIdentity(ctx, session); err != nil {
		uc.logger.Error("Failed to delete identity", zap.String("user_id", session.UserID), zap.Error(err))
		return asAuthError(err)
	}
	return nil
}

// Authenticate resolves a bearer token into the calling actor.
func (uc *AuthUsecase) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	if token == "" {
		return domain.Actor{}, domain.ErrNoCurrentUser
	}
	session, err := uc.identities.VerifySession(ctx, token)
	if err != nil {
		return domain.Actor{}, asAuthError(err)
	}
	profile, err := uc.profiles.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, domain.NewAuthError(domain.AuthNoCurrentUser, err)
		}
		return domain.Actor{}, err
	}
	return domain.Actor{UserID: session.UserID, Role: profile.EffectiveRole(), Session: session}, nil
}

func asAuthError(err error) error {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return err
	}
	return domain.NewAuthError(domain.AuthUnknown, err)
}
