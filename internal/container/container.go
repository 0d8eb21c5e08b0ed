package container

import (
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripnest/server/internal/config"
	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
	"github.com/tripnest/server/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	MongoDBClient *mongo.Client
	Tokens        *helpers.TokenIssuer

	UserService           *services.UserService
	HostService           *services.HostService
	BookingService        *services.BookingService
	TripService           *services.TripService
	TransportationService *services.TransportationService
	MessageService        *services.MessageService
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, mongoClient *mongo.Client) *Container {
	repo := models.MongodbNewRepo(mongoClient, cfg.MongoDBName)
	tokens := helpers.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	userService := services.NewUserService(repo, tokens)
	hostService := services.NewHostService(repo)
	bookingService := services.NewBookingService(repo, repo, repo)
	tripService := services.NewTripService(repo)
	transportationService := services.NewTransportationService(repo)
	messageService := services.NewMessageService(repo, repo)

	return &Container{
		Config:                cfg,
		Logger:                logger,
		MongoDBClient:         mongoClient,
		Tokens:                tokens,
		UserService:           userService,
		HostService:           hostService,
		BookingService:        bookingService,
		TripService:           tripService,
		TransportationService: transportationService,
		MessageService:        messageService,
	}
}
