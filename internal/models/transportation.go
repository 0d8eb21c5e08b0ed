package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TransportFlight = "flight"
	TransportTrain  = "train"
	TransportBus    = "bus"
)

type Transportation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type          string             `bson:"type" json:"type" validate:"required,oneof=flight train bus"`
	Operator      string             `bson:"operator" json:"operator" validate:"required"`
	Number        string             `bson:"number,omitempty" json:"number,omitempty"`
	Origin        string             `bson:"origin" json:"origin" validate:"required"`
	Destination   string             `bson:"destination" json:"destination" validate:"required"`
	DepartureTime string             `bson:"departure_time,omitempty" json:"departure_time,omitempty"`
	ArrivalTime   string             `bson:"arrival_time,omitempty" json:"arrival_time,omitempty"`
	Duration      string             `bson:"duration,omitempty" json:"duration,omitempty"`
	Price         float64            `bson:"price" json:"price" validate:"gt=0"`
	SeatsTotal    int                `bson:"seats_total,omitempty" json:"seats_total,omitempty"`
	SeatClasses   []string           `bson:"seat_classes,omitempty" json:"seat_classes,omitempty"`
	Facilities    []string           `bson:"facilities,omitempty" json:"facilities,omitempty"`
	Stops         []string           `bson:"stops,omitempty" json:"stops,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
