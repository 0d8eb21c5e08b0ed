package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/models"
)

type TransportationService struct {
	transportRepo models.TransportationRepo
}

func NewTransportationService(transportRepo models.TransportationRepo) *TransportationService {
	return &TransportationService{
		transportRepo: transportRepo,
	}
}

func (ts *TransportationService) CreateTransportation(ctx context.Context, t *models.Transportation) (*models.Transportation, error) {
	if err := models.Validate.Struct(t); err != nil {
		return nil, models.Invalid("invalid transportation data: %v", err)
	}

	now := time.Now()
	t.ID = primitive.NilObjectID
	t.CreatedAt = now
	t.UpdatedAt = now

	return ts.transportRepo.CreateTransportation(ctx, t)
}

func (ts *TransportationService) GetTransportation(ctx context.Context, id primitive.ObjectID) (*models.Transportation, error) {
	return ts.transportRepo.FindTransportationByID(ctx, id)
}

func (ts *TransportationService) ListTransportations(ctx context.Context, transportType, origin, destination string, offset, limit int) ([]*models.Transportation, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, models.Invalid("invalid offset or limit")
	}

	filter := bson.M{}
	if transportType != "" {
		filter["type"] = transportType
	}
	if origin != "" {
		filter["origin"] = bson.M{"$regex": origin, "$options": "i"}
	}
	if destination != "" {
		filter["destination"] = bson.M{"$regex": destination, "$options": "i"}
	}

	return ts.transportRepo.ListTransportations(ctx, filter, offset, limit)
}
