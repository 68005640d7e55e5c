package application

import (
	"context"
	"fmt"
	"io"
	"time"

	"cat_connect/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	store := &fakeUserStore{users: map[primitive.ObjectID]*domain.User{}}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (s *fakeUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return user, nil
}

func (s *fakeUserStore) GetOneUser(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (s *fakeUserStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	all := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		all = append(all, user)
	}
	return all, nil
}

func (s *fakeUserStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	user.Password = passwordHash
	return nil
}

func (s *fakeUserStore) SetVerified(ctx context.Context, username string) error {
	for _, user := range s.users {
		if user.Username == username {
			user.Verified = true
			return nil
		}
	}
	return fmt.Errorf("not found")
}

func (s *fakeUserStore) UpdatePreferences(ctx context.Context, id primitive.ObjectID, preferences *domain.Preferences) error {
	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	user.Preferences = preferences
	return nil
}

func (s *fakeUserStore) UpdateLocation(ctx context.Context, id primitive.ObjectID, location *domain.GeoPoint, postalCode, countryCode string) error {
	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	user.Location = location
	user.PostalCode = postalCode
	user.CountryCode = countryCode
	return nil
}

func (s *fakeUserStore) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	delete(s.users, id)
	return nil
}

type fakeCatStore struct {
	cats map[primitive.ObjectID]*domain.Cat

	nearby          []*domain.Cat
	lastCoordinates []float64
	lastRadius      float64
	deleted         []primitive.ObjectID
}

func newFakeCatStore(cats ...*domain.Cat) *fakeCatStore {
	store := &fakeCatStore{cats: map[primitive.ObjectID]*domain.Cat{}}
	for _, cat := range cats {
		store.cats[cat.ID] = cat
	}
	return store
}

func (s *fakeCatStore) Insert(ctx context.Context, cat *domain.Cat) (*domain.Cat, error) {
	if cat.ID.IsZero() {
		cat.ID = primitive.NewObjectID()
	}
	s.cats[cat.ID] = cat
	return cat, nil
}

func (s *fakeCatStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Cat, error) {
	cat, ok := s.cats[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return cat, nil
}

func (s *fakeCatStore) GetBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*domain.Cat, error) {
	matched := []*domain.Cat{}
	for _, cat := range s.cats {
		if cat.SellerID == sellerID {
			matched = append(matched, cat)
		}
	}
	return matched, nil
}

func (s *fakeCatStore) GetAllPublished(ctx context.Context) ([]*domain.Cat, error) {
	matched := []*domain.Cat{}
	for _, cat := range s.cats {
		if cat.Status == domain.CatPublished {
			matched = append(matched, cat)
		}
	}
	return matched, nil
}

func (s *fakeCatStore) Update(ctx context.Context, cat *domain.Cat) error {
	s.cats[cat.ID] = cat
	return nil
}

func (s *fakeCatStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.CatStatus) error {
	cat, ok := s.cats[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	cat.Status = status
	return nil
}

func (s *fakeCatStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(s.cats, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeCatStore) FindNearby(ctx context.Context, coordinates []float64, radiusKm float64) ([]*domain.Cat, error) {
	s.lastCoordinates = coordinates
	s.lastRadius = radiusKm
	return s.nearby, nil
}

func (s *fakeCatStore) EnsureIndexes(ctx context.Context) error {
	return nil
}

type fakeChatStore struct {
	chats     map[primitive.ObjectID]*domain.Chat
	snapshots []primitive.ObjectID
}

func newFakeChatStore(chats ...*domain.Chat) *fakeChatStore {
	store := &fakeChatStore{chats: map[primitive.ObjectID]*domain.Chat{}}
	for _, chat := range chats {
		store.chats[chat.ID] = chat
	}
	return store
}

func (s *fakeChatStore) Insert(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	s.chats[chat.ID] = chat
	return chat, nil
}

func (s *fakeChatStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Chat, error) {
	chat, ok := s.chats[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return chat, nil
}

func (s *fakeChatStore) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Chat, error) {
	matched := []*domain.Chat{}
	for _, chat := range s.chats {
		for _, participant := range chat.Participants {
			if participant == userID {
				matched = append(matched, chat)
				break
			}
		}
	}
	return matched, nil
}

func (s *fakeChatStore) GetByCat(ctx context.Context, catID primitive.ObjectID) ([]*domain.Chat, error) {
	matched := []*domain.Chat{}
	for _, chat := range s.chats {
		if chat.CatID == catID {
			matched = append(matched, chat)
		}
	}
	return matched, nil
}

func (s *fakeChatStore) AppendMessage(ctx context.Context, id primitive.ObjectID, message *domain.Message) error {
	chat, ok := s.chats[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	chat.Messages = append(chat.Messages, *message)
	return nil
}

func (s *fakeChatStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ChatStatus) error {
	chat, ok := s.chats[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	chat.Status = status
	return nil
}

func (s *fakeChatStore) MarkSnapshot(ctx context.Context, id primitive.ObjectID) error {
	chat, ok := s.chats[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	chat.Snapshot = true
	s.snapshots = append(s.snapshots, id)
	return nil
}

type fakeMeetupStore struct {
	meetups    map[primitive.ObjectID]*domain.Meetup
	lastCutoff time.Time
}

func newFakeMeetupStore(meetups ...*domain.Meetup) *fakeMeetupStore {
	store := &fakeMeetupStore{meetups: map[primitive.ObjectID]*domain.Meetup{}}
	for _, meetup := range meetups {
		store.meetups[meetup.ID] = meetup
	}
	return store
}

func (s *fakeMeetupStore) Insert(ctx context.Context, meetup *domain.Meetup) (*domain.Meetup, error) {
	if meetup.ID.IsZero() {
		meetup.ID = primitive.NewObjectID()
	}
	s.meetups[meetup.ID] = meetup
	return meetup, nil
}

func (s *fakeMeetupStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Meetup, error) {
	meetup, ok := s.meetups[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return meetup, nil
}

func (s *fakeMeetupStore) GetAll(ctx context.Context) ([]*domain.Meetup, error) {
	all := make([]*domain.Meetup, 0, len(s.meetups))
	for _, meetup := range s.meetups {
		all = append(all, meetup)
	}
	return all, nil
}

func (s *fakeMeetupStore) Update(ctx context.Context, meetup *domain.Meetup) error {
	s.meetups[meetup.ID] = meetup
	return nil
}

func (s *fakeMeetupStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(s.meetups, id)
	return nil
}

func (s *fakeMeetupStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.lastCutoff = cutoff
	var deleted int64
	for id, meetup := range s.meetups {
		if meetup.Date.Before(cutoff) {
			delete(s.meetups, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeSubscriptionStore struct {
	plans         map[primitive.ObjectID]*domain.SubscriptionPlan
	subscriptions map[primitive.ObjectID]*domain.UserSubscription
	byStripeID    map[string]*domain.UserSubscription
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{
		plans:         map[primitive.ObjectID]*domain.SubscriptionPlan{},
		subscriptions: map[primitive.ObjectID]*domain.UserSubscription{},
		byStripeID:    map[string]*domain.UserSubscription{},
	}
}

func (s *fakeSubscriptionStore) GetPlans(ctx context.Context) ([]*domain.SubscriptionPlan, error) {
	all := make([]*domain.SubscriptionPlan, 0, len(s.plans))
	for _, plan := range s.plans {
		all = append(all, plan)
	}
	return all, nil
}

func (s *fakeSubscriptionStore) GetPlan(ctx context.Context, id primitive.ObjectID) (*domain.SubscriptionPlan, error) {
	plan, ok := s.plans[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return plan, nil
}

func (s *fakeSubscriptionStore) InsertPlan(ctx context.Context, plan *domain.SubscriptionPlan) (*domain.SubscriptionPlan, error) {
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	s.plans[plan.ID] = plan
	return plan, nil
}

func (s *fakeSubscriptionStore) GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.UserSubscription, error) {
	subscription, ok := s.subscriptions[userID]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return subscription, nil
}

func (s *fakeSubscriptionStore) Upsert(ctx context.Context, subscription *domain.UserSubscription) error {
	if subscription.ID.IsZero() {
		subscription.ID = primitive.NewObjectID()
	}
	s.subscriptions[subscription.UserID] = subscription
	if subscription.StripeSubscriptionID != "" {
		s.byStripeID[subscription.StripeSubscriptionID] = subscription
	}
	return nil
}

func (s *fakeSubscriptionStore) UpdateStatusByStripeID(ctx context.Context, stripeSubscriptionID string, status domain.SubscriptionStatus) error {
	subscription, ok := s.byStripeID[stripeSubscriptionID]
	if !ok {
		return fmt.Errorf("not found")
	}
	subscription.Status = status
	return nil
}

type fakePaymentProvider struct {
	checkoutURL string
	event       *domain.PaymentEvent
	parseErr    error
}

func (p *fakePaymentProvider) CreateCheckoutSession(ctx context.Context, customerEmail, priceID string) (string, error) {
	return p.checkoutURL, nil
}

func (p *fakePaymentProvider) ParseWebhookEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if p.parseErr != nil {
		return nil, p.parseErr
	}
	return p.event, nil
}

type fakeAdoptionStore struct {
	adoptions map[primitive.ObjectID]*domain.Adoption
}

func newFakeAdoptionStore(adoptions ...*domain.Adoption) *fakeAdoptionStore {
	store := &fakeAdoptionStore{adoptions: map[primitive.ObjectID]*domain.Adoption{}}
	for _, adoption := range adoptions {
		store.adoptions[adoption.ID] = adoption
	}
	return store
}

func (s *fakeAdoptionStore) Insert(ctx context.Context, adoption *domain.Adoption) (*domain.Adoption, error) {
	if adoption.ID.IsZero() {
		adoption.ID = primitive.NewObjectID()
	}
	s.adoptions[adoption.ID] = adoption
	return adoption, nil
}

func (s *fakeAdoptionStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Adoption, error) {
	adoption, ok := s.adoptions[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return adoption, nil
}

func (s *fakeAdoptionStore) GetByCat(ctx context.Context, catID primitive.ObjectID) ([]*domain.Adoption, error) {
	matched := []*domain.Adoption{}
	for _, adoption := range s.adoptions {
		if adoption.CatID == catID {
			matched = append(matched, adoption)
		}
	}
	return matched, nil
}

func (s *fakeAdoptionStore) Complete(ctx context.Context, id primitive.ObjectID, snapshot *domain.Cat) error {
	adoption, ok := s.adoptions[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	adoption.Status = domain.AdoptionCompletedStatus
	adoption.Cat = snapshot
	return nil
}

type fakePaymentStore struct {
	payments []*domain.PaymentRecord
}

func (s *fakePaymentStore) Insert(ctx context.Context, payment *domain.PaymentRecord) (*domain.PaymentRecord, error) {
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	s.payments = append(s.payments, payment)
	return payment, nil
}

func (s *fakePaymentStore) GetByPayer(ctx context.Context, payerID primitive.ObjectID) ([]*domain.PaymentRecord, error) {
	matched := []*domain.PaymentRecord{}
	for _, payment := range s.payments {
		if payment.PayerID == payerID {
			matched = append(matched, payment)
		}
	}
	return matched, nil
}
