// Package cognito backs the identity gateway with an AWS Cognito user pool.
// The pool must sign users in by email so that the user's sub is also the
// username accepted by the admin API.
package cognito

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// cognitoAPI is the part of the Cognito client the provider calls.
type cognitoAPI interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	GetUser(ctx context.Context, in *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
	GlobalSignOut(ctx context.Context, in *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
	DeleteUser(ctx context.Context, in *cip.DeleteUserInput, optFns ...func(*cip.Options)) (*cip.DeleteUserOutput, error)
	AdminDeleteUser(ctx context.Context, in *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
}

type Provider struct {
	client     cognitoAPI
	userPoolID string
	clientID   string
	logger     *logger.Logger
	now        func() time.Time
}

// NewProvider builds a Cognito client from the default AWS credential chain.
func NewProvider(ctx context.Context, userPoolID, clientID string, log *logger.Logger) (*Provider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newProvider(cip.NewFromConfig(cfg), userPoolID, clientID, log), nil
}

func newProvider(client cognitoAPI, userPoolID, clientID string, log *logger.Logger) *Provider {
	return &Provider{
		client:     client,
		userPoolID: userPoolID,
		clientID:   clientID,
		logger:     log.Named("CognitoIdentityProvider"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (p *Provider) CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error) {
	out, err := p.client.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		return nil, p.mapError("SignUp", err)
	}
	return &domain.Identity{UserID: aws.ToString(out.UserSub), Email: email}, nil
}

func (p *Provider) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	out, err := p.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, p.mapError("InitiateAuth", err)
	}
	if out.AuthenticationResult == nil {
		p.logger.Warn("Authentication challenge not supported", zap.String("challenge", string(out.ChallengeName)))
		return nil, domain.NewAuthError(domain.AuthUnknown, errors.New("unsupported challenge "+string(out.ChallengeName)))
	}

	token := aws.ToString(out.AuthenticationResult.AccessToken)
	session, err := p.VerifySession(ctx, token)
	if err != nil {
		return nil, err
	}
	session.ExpiresAt = p.now().Add(time.Duration(out.AuthenticationResult.ExpiresIn) * time.Second)
	return session, nil
}

// VerifySession asks Cognito who owns the access token. Revoked or expired
// tokens are reported as no current user.
func (p *Provider) VerifySession(ctx context.Context, token string) (*domain.Session, error) {
	out, err := p.client.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(token)})
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		if errors.As(err, &notAuthorized) {
			return nil, domain.NewAuthError(domain.AuthNoCurrentUser, err)
		}
		return nil, p.mapError("GetUser", err)
	}

	session := &domain.Session{UserID: aws.ToString(out.Username), Token: token}
	for _, attr := range out.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			session.UserID = aws.ToString(attr.Value)
		case "email":
			session.Email = aws.ToString(attr.Value)
		}
	}
	session.ID = session.UserID
	return session, nil
}

func (p *Provider) EndSession(ctx context.Context, session *domain.Session) error {
	if _, err := p.client.GlobalSignOut(ctx, &cip.GlobalSignOutInput{AccessToken: aws.String(session.Token)}); err != nil {
		return p.mapError("GlobalSignOut", err)
	}
	return nil
}

func (p *Provider) DeleteIdentity(ctx context.Context, session *domain.Session) error {
	if _, err := p.client.DeleteUser(ctx, &cip.DeleteUserInput{AccessToken: aws.String(session.Token)}); err != nil {
		return p.mapError("DeleteUser", err)
	}
	return nil
}

// AdminDeleteIdentity needs IAM credentials allowed to call AdminDeleteUser
// on the pool. An identity that is already gone is not an error.
func (p *Provider) AdminDeleteIdentity(ctx context.Context, userID string) error {
	_, err := p.client.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(userID),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return p.mapError("AdminDeleteUser", err)
	}
	return nil
}

func (p *Provider) mapError(op string, err error) error {
	var (
		exists       *types.UsernameExistsException
		badPassword  *types.InvalidPasswordException
		badParam     *types.InvalidParameterException
		unauthorized *types.NotAuthorizedException
		notFound     *types.UserNotFoundException
	)
	switch {
	case errors.As(err, &exists):
		return domain.NewAuthError(domain.AuthEmailInUse, err)
	case errors.As(err, &badPassword):
		return domain.NewAuthError(domain.AuthWeakPassword, err)
	case errors.As(err, &badParam):
		return domain.NewAuthError(domain.AuthInvalidEmail, err)
	case errors.As(err, &unauthorized):
		if strings.Contains(strings.ToLower(unauthorized.ErrorMessage()), "disabled") {
			return domain.NewAuthError(domain.AuthAccountDisabled, err)
		}
		return domain.NewAuthError(domain.AuthInvalidCredentials, err)
	case errors.As(err, &notFound):
		return domain.NewAuthError(domain.AuthInvalidCredentials, err)
	}

	code := "unknown"
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}
	p.logger.Error("Cognito call failed", zap.String("op", op), zap.String("code", code), zap.Error(err))
	return domain.NewAuthError(domain.AuthUnknown, err)
}
