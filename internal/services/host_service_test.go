package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/models"
)

func TestComputeProfileStatusComplete(t *testing.T) {
	host := completeHost(primitive.NewObjectID())

	status := ComputeProfileStatus(host)
	assert.True(t, status.Complete)
	assert.Equal(t, 100, status.CompletionPercentage)
	assert.Empty(t, status.MissingFields)
}

func TestComputeProfileStatusMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(h *models.Host)
		missing string
	}{
		{"no location", func(h *models.Host) { h.Location = " " }, "location"},
		{"no languages", func(h *models.Host) { h.Languages = nil }, "languages"},
		{"empty bio", func(h *models.Host) { h.Description = "" }, "bio"},
		{"bio too short", func(h *models.Host) { h.Description = "hi there" }, "bio"},
		{"zero price", func(h *models.Host) { h.Price = 0 }, "price"},
		{"no services", func(h *models.Host) { h.Services = nil }, "services"},
		{"no available from", func(h *models.Host) { h.AvailableFrom = "" }, "availableFrom"},
		{"no available to", func(h *models.Host) { h.AvailableTo = "" }, "availableTo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			host := completeHost(primitive.NewObjectID())
			tc.mutate(host)

			status := ComputeProfileStatus(host)
			assert.False(t, status.Complete)
			assert.Contains(t, status.MissingFields, tc.missing)
			assert.Less(t, status.CompletionPercentage, 100)
		})
	}
}

func TestComputeProfileStatusAccommodationNeedsPropertyImage(t *testing.T) {
	host := completeHost(primitive.NewObjectID())
	host.Services = []string{models.ServiceAccommodation}

	status := ComputeProfileStatus(host)
	assert.False(t, status.Complete)
	assert.Equal(t, []string{"propertyImage"}, status.MissingFields)
	// 7 of 8 checks filled.
	assert.Equal(t, 88, status.CompletionPercentage)

	host.PropertyImage = "data:image/jpeg;base64,abcd"
	status = ComputeProfileStatus(host)
	assert.True(t, status.Complete)
}

func TestComputeProfileStatusEmptyHost(t *testing.T) {
	status := ComputeProfileStatus(&models.Host{})
	assert.False(t, status.Complete)
	assert.Equal(t, 0, status.CompletionPercentage)
	assert.Len(t, status.MissingFields, 7)
}

func TestCreateHostResetsModeration(t *testing.T) {
	repo := newFakeHostRepo()
	svc := NewHostService(repo)
	owner := primitive.NewObjectID()

	host := completeHost(primitive.NewObjectID())
	host.Rating = 4.9
	host.Reviews = 120
	host.Verified = true

	created, err := svc.CreateHost(context.Background(), owner, host)
	require.NoError(t, err)

	// Ratings and verification are earned, never self-assigned.
	assert.Equal(t, owner, created.UserID)
	assert.Equal(t, 0.0, created.Rating)
	assert.Equal(t, 0, created.Reviews)
	assert.False(t, created.Verified)
}

func TestCreateHostRejectsInvalidData(t *testing.T) {
	svc := NewHostService(newFakeHostRepo())

	_, err := svc.CreateHost(context.Background(), primitive.NewObjectID(), &models.Host{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestListHostsRejectsBadPagination(t *testing.T) {
	svc := NewHostService(newFakeHostRepo())

	_, _, err := svc.ListHosts(context.Background(), "", false, -1, 10)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = svc.ListHosts(context.Background(), "", false, 0, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateHostScopedToOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	host := completeHost(owner)
	repo := newFakeHostRepo(host)
	svc := NewHostService(repo)

	_, err := svc.UpdateHost(context.Background(), host.ID, primitive.NewObjectID(), map[string]interface{}{"location": "Sylhet"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	updated, err := svc.UpdateHost(context.Background(), host.ID, owner, map[string]interface{}{"location": "Sylhet"})
	require.NoError(t, err)
	assert.Equal(t, "Sylhet", updated.Location)
}

func TestUpdateHostIgnoresModerationFields(t *testing.T) {
	owner := primitive.NewObjectID()
	host := completeHost(owner)
	repo := newFakeHostRepo(host)
	svc := NewHostService(repo)

	updated, err := svc.UpdateHost(context.Background(), host.ID, owner, map[string]interface{}{
		"location": "Sylhet",
		"verified": true,
		"rating":   5.0,
		"reviews":  40,
		"user_id":  primitive.NewObjectID(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sylhet", updated.Location)
	assert.False(t, updated.Verified)
	assert.Equal(t, 0.0, updated.Rating)
	assert.Equal(t, 0, updated.Reviews)
	assert.Equal(t, owner, updated.UserID)

	// An update carrying nothing but protected fields is an empty update.
	_, err = svc.UpdateHost(context.Background(), host.ID, owner, map[string]interface{}{"verified": true})
	assert.ErrorIs(t, err, models.ErrValidation)
}
