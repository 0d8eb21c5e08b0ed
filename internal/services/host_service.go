package services

import (
	"context"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/models"
)

const minBioLength = 20

type HostService struct {
	hostRepo models.HostRepo
}

func NewHostService(hostRepo models.HostRepo) *HostService {
	return &HostService{
		hostRepo: hostRepo,
	}
}

// ComputeProfileStatus checks the fields a host listing must carry before it
// can accept bookings. "Accommodation" hosts additionally need a property
// image.
func ComputeProfileStatus(host *models.Host) models.ProfileStatus {
	type check struct {
		field  string
		filled bool
	}

	checks := []check{
		{"location", strings.TrimSpace(host.Location) != ""},
		{"languages", len(host.Languages) > 0},
		{"bio", len(strings.TrimSpace(host.Description)) >= minBioLength},
		{"price", host.Price > 0},
		{"services", len(host.Services) > 0},
		{"availableFrom", strings.TrimSpace(host.AvailableFrom) != ""},
		{"availableTo", strings.TrimSpace(host.AvailableTo) != ""},
	}
	if host.OffersAccommodation() {
		checks = append(checks, check{"propertyImage", strings.TrimSpace(host.PropertyImage) != ""})
	}

	filled := 0
	missing := []string{}
	for _, c := range checks {
		if c.filled {
			filled++
		} else {
			missing = append(missing, c.field)
		}
	}

	return models.ProfileStatus{
		Complete:             len(missing) == 0,
		CompletionPercentage: int(math.Round(float64(filled) / float64(len(checks)) * 100)),
		MissingFields:        missing,
	}
}

func (hs *HostService) CreateHost(ctx context.Context, ownerID primitive.ObjectID, host *models.Host) (*models.Host, error) {
	if err := models.Validate.Struct(host); err != nil {
		return nil, models.Invalid("invalid host data: %v", err)
	}

	now := time.Now()
	host.ID = primitive.NilObjectID
	host.UserID = ownerID
	host.Rating = 0
	host.Reviews = 0
	host.Verified = false
	host.CreatedAt = now
	host.UpdatedAt = now

	return hs.hostRepo.CreateHost(ctx, host)
}

func (hs *HostService) GetHost(ctx context.Context, id primitive.ObjectID) (*models.Host, error) {
	return hs.hostRepo.FindHostByID(ctx, id)
}

func (hs *HostService) GetProfileStatus(ctx context.Context, id primitive.ObjectID) (models.ProfileStatus, error) {
	host, err := hs.hostRepo.FindHostByID(ctx, id)
	if err != nil {
		return models.ProfileStatus{}, err
	}
	return ComputeProfileStatus(host), nil
}

func (hs *HostService) ListHosts(ctx context.Context, location string, availableOnly bool, offset, limit int) ([]*models.Host, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, models.Invalid("invalid offset or limit")
	}

	filter := bson.M{}
	if location != "" {
		filter["location"] = bson.M{"$regex": location, "$options": "i"}
	}
	if availableOnly {
		filter["available"] = true
	}

	return hs.hostRepo.ListHosts(ctx, filter, offset, limit)
}

func (hs *HostService) ListMine(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Host, error) {
	return hs.hostRepo.FindHostsByUserID(ctx, ownerID)
}

func (hs *HostService) UpdateHost(ctx context.Context, id, ownerID primitive.ObjectID, fields map[string]interface{}) (*models.Host, error) {
	// Identity and moderation fields are never client-updatable; ratings and
	// verification are earned, not self-assigned.
	delete(fields, "_id")
	delete(fields, "id")
	delete(fields, "user_id")
	delete(fields, "verified")
	delete(fields, "rating")
	delete(fields, "reviews")
	delete(fields, "created_at")
	if len(fields) == 0 {
		return nil, models.Invalid("no fields to update")
	}
	return hs.hostRepo.UpdateHost(ctx, id, ownerID, bson.M(fields))
}
