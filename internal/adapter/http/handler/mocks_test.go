package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in usecase.RegisterInput) (*domain.Profile, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*usecase.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, session *domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) DeleteUserCascade(ctx context.Context, actor domain.Actor, userID string) error {
	return m.Called(ctx, actor, userID).Error(0)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, actor domain.Actor, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	args := m.Called(ctx, actor, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) SetRole(ctx context.Context, actor domain.Actor, userID string, role domain.Role) error {
	return m.Called(ctx, actor, userID, role).Error(0)
}

func (m *MockProfileService) ListProfiles(ctx context.Context, actor domain.Actor) ([]*domain.Profile, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) listing(args mock.Arguments) (*domain.Listing, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingService) listings(args mock.Arguments) ([]*domain.Listing, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}

func (m *MockListingService) CreateListing(ctx context.Context, actor domain.Actor, fields domain.ListingFields) (*domain.Listing, error) {
	return m.listing(m.Called(ctx, actor, fields))
}

func (m *MockListingService) GetListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error) {
	return m.listing(m.Called(ctx, actor, id))
}

func (m *MockListingService) ListApproved(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	return m.listings(m.Called(ctx, filter))
}

func (m *MockListingService) ListPending(ctx context.Context, actor domain.Actor) ([]*domain.Listing, error) {
	return m.listings(m.Called(ctx, actor))
}

func (m *MockListingService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return m.listings(m.Called(ctx, ownerID))
}

func (m *MockListingService) UpdateListing(ctx context.Context, actor domain.Actor, id string, fields domain.ListingFields) (*domain.Listing, error) {
	return m.listing(m.Called(ctx, actor, id, fields))
}

func (m *MockListingService) ApproveListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error) {
	return m.listing(m.Called(ctx, actor, id))
}

func (m *MockListingService) RejectListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error) {
	return m.listing(m.Called(ctx, actor, id))
}

func (m *MockListingService) DeleteListing(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) AddFavorite(ctx context.Context, userID, listingID string) error {
	return m.Called(ctx, userID, listingID).Error(0)
}

func (m *MockFavoriteService) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	return m.Called(ctx, userID, listingID).Error(0)
}

func (m *MockFavoriteService) ListFavoriteListingIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) UploadListingImage(ctx context.Context, actor domain.Actor, data []byte) (string, error) {
	args := m.Called(ctx, actor, data)
	return args.String(0), args.Error(1)
}

var userActor = domain.Actor{
	UserID:  "u1",
	Role:    domain.RoleUser,
	Session: &domain.Session{ID: "s1", UserID: "u1", Email: "aigerim@mail.kz", Token: "tok-u1"},
}

var adminActor = domain.Actor{
	UserID:  "a1",
	Role:    domain.RoleAdmin,
	Session: &domain.Session{ID: "s2", UserID: "a1", Email: "admin@carmarket.kz", Token: "tok-a1"},
}

// newRequest builds a request as the router would hand it to a handler:
// actor on the context and chi URL params filled in.
func newRequest(t *testing.T, method, target string, body interface{}, actor *domain.Actor, params map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if actor != nil {
		ctx = middleware.WithActor(ctx, *actor)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
