package application

import (
	"context"
	"net/http"
	"testing"
	"time"

	"cat_connect/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateMeetupRejectsPastDate(t *testing.T) {
	service := NewMeetupService(newFakeMeetupStore(), testTracer, testLogger())

	_, status, err := service.Create(context.Background(), &domain.Meetup{
		OrganizerID: primitive.NewObjectID(),
		Title:       "Cat cafe afternoon",
		Date:        time.Now().AddDate(0, 0, -1),
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Error(t, err)
}

func TestCleanupExpiredUsesStartOfDayCutoff(t *testing.T) {
	yesterday := &domain.Meetup{
		ID:    primitive.NewObjectID(),
		Title: "Yesterday",
		Date:  time.Now().AddDate(0, 0, -1),
	}
	today := &domain.Meetup{
		ID:    primitive.NewObjectID(),
		Title: "Today",
		Date:  time.Now(),
	}
	tomorrow := &domain.Meetup{
		ID:    primitive.NewObjectID(),
		Title: "Tomorrow",
		Date:  time.Now().AddDate(0, 0, 1),
	}
	store := newFakeMeetupStore(yesterday, today, tomorrow)
	service := NewMeetupService(store, testTracer, testLogger())

	deleted, err := service.CleanupExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	assert.Equal(t, startOfDay, store.lastCutoff)

	remaining, err := service.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestDeleteMeetupOnlyOrganizerOrAdmin(t *testing.T) {
	organizer := primitive.NewObjectID()
	meetup := &domain.Meetup{
		ID:          primitive.NewObjectID(),
		OrganizerID: organizer,
		Title:       "Shelter open day",
		Date:        time.Now().AddDate(0, 0, 7),
	}
	store := newFakeMeetupStore(meetup)
	service := NewMeetupService(store, testTracer, testLogger())

	status, err := service.Delete(context.Background(), meetup.ID, primitive.NewObjectID(), domain.RoleUser)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Error(t, err)

	status, err = service.Delete(context.Background(), meetup.ID, primitive.NewObjectID(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}
