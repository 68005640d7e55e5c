package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cat_connect/domain"
	application "cat_connect/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

type stubUserStore struct {
	users map[primitive.ObjectID]*domain.User
}

func (s *stubUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (s *stubUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return user, nil
}

func (s *stubUserStore) GetOneUser(ctx context.Context, username string) (*domain.User, error) {
	return nil, fmt.Errorf("not found")
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, fmt.Errorf("not found")
}

func (s *stubUserStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	return nil, nil
}

func (s *stubUserStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (s *stubUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return nil
}

func (s *stubUserStore) SetVerified(ctx context.Context, username string) error {
	return nil
}

func (s *stubUserStore) UpdatePreferences(ctx context.Context, id primitive.ObjectID, preferences *domain.Preferences) error {
	return nil
}

func (s *stubUserStore) UpdateLocation(ctx context.Context, id primitive.ObjectID, location *domain.GeoPoint, postalCode, countryCode string) error {
	return nil
}

func (s *stubUserStore) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

type stubCatStore struct {
	nearby []*domain.Cat
}

func (s *stubCatStore) Insert(ctx context.Context, cat *domain.Cat) (*domain.Cat, error) {
	return cat, nil
}

func (s *stubCatStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Cat, error) {
	return nil, fmt.Errorf("not found")
}

func (s *stubCatStore) GetBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*domain.Cat, error) {
	return nil, nil
}

func (s *stubCatStore) GetAllPublished(ctx context.Context) ([]*domain.Cat, error) {
	return nil, nil
}

func (s *stubCatStore) Update(ctx context.Context, cat *domain.Cat) error {
	return nil
}

func (s *stubCatStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.CatStatus) error {
	return nil
}

func (s *stubCatStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (s *stubCatStore) FindNearby(ctx context.Context, coordinates []float64, radiusKm float64) ([]*domain.Cat, error) {
	return s.nearby, nil
}

func (s *stubCatStore) EnsureIndexes(ctx context.Context) error {
	return nil
}

func newMatchmakingRouter(users *stubUserStore, cats *stubCatStore) *mux.Router {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	service := application.NewMatchmakingService(cats, users, tracer, logger)
	handler := NewMatchmakingHandler(service, tracer, logger)

	router := mux.NewRouter()
	handler.Init(router.PathPrefix("/api/matchmaking").Subrouter())
	return router
}

func TestMatchmakingHandlerInvalidID(t *testing.T) {
	router := newMatchmakingRouter(&stubUserStore{users: map[primitive.ObjectID]*domain.User{}}, &stubCatStore{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/matchmaking/not-an-id", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestMatchmakingHandlerNotFoundBody(t *testing.T) {
	router := newMatchmakingRouter(&stubUserStore{users: map[primitive.ObjectID]*domain.User{}}, &stubCatStore{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/matchmaking/"+primitive.NewObjectID().Hex(), nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "User, preferences, or location not found.", body["error"])
}

func TestMatchmakingHandlerEmptyList(t *testing.T) {
	user := &domain.User{
		ID:          primitive.NewObjectID(),
		Preferences: &domain.Preferences{},
		Location:    domain.NewGeoPoint(13.405, 52.52),
	}
	router := newMatchmakingRouter(
		&stubUserStore{users: map[primitive.ObjectID]*domain.User{user.ID: user}},
		&stubCatStore{},
	)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/matchmaking/"+user.ID.Hex(), nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", recorder.Body.String())
}

func TestMatchmakingHandlerRankedResponse(t *testing.T) {
	seller := &domain.User{ID: primitive.NewObjectID(), Username: "shelter-mitte"}
	allergy := true
	user := &domain.User{
		ID:          primitive.NewObjectID(),
		Preferences: &domain.Preferences{AllergyFriendly: &allergy},
		Location:    domain.NewGeoPoint(13.405, 52.52),
	}

	plain := &domain.Cat{
		ID:       primitive.NewObjectID(),
		Name:     "Mira",
		SellerID: seller.ID,
		Location: domain.NewGeoPoint(13.41, 52.525),
	}
	hypoallergenic := &domain.Cat{
		ID:              primitive.NewObjectID(),
		Name:            "Felix",
		SellerID:        seller.ID,
		AllergyFriendly: true,
		Location:        domain.NewGeoPoint(13.0645, 52.3906),
	}

	router := newMatchmakingRouter(
		&stubUserStore{users: map[primitive.ObjectID]*domain.User{user.ID: user, seller.ID: seller}},
		&stubCatStore{nearby: []*domain.Cat{plain, hypoallergenic}},
	)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/matchmaking/"+user.ID.Hex(), nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var cats []*domain.Cat
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "Felix", cats[0].Name)
	assert.Equal(t, "Mira", cats[1].Name)
	assert.Equal(t, "shelter-mitte", cats[0].SellerName)
	assert.Positive(t, cats[0].DistanceKm)
}
