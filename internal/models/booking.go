package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingTypeHost           = "host"
	BookingTypeTransportation = "transportation"

	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"

	PaymentMethodCard  = "card"
	PaymentMethodBkash = "bkash"

	// PlatformFeeRate is the fixed 15% surcharge over the booking subtotal.
	PlatformFeeRate = 0.15
)

type Booking struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID        string             `bson:"booking_id" json:"booking_id"`
	UserID           primitive.ObjectID `bson:"user_id" json:"user_id"`
	BookingType      string             `bson:"booking_type" json:"booking_type" validate:"required,oneof=host transportation"`
	HostID           primitive.ObjectID `bson:"host_id,omitempty" json:"host_id,omitempty"`
	TransportationID primitive.ObjectID `bson:"transportation_id,omitempty" json:"transportation_id,omitempty"`
	CheckIn          string             `bson:"check_in,omitempty" json:"check_in,omitempty"`
	CheckOut         string             `bson:"check_out,omitempty" json:"check_out,omitempty"`
	TravelDate       string             `bson:"travel_date,omitempty" json:"travel_date,omitempty"`
	Guests           int                `bson:"guests,omitempty" json:"guests,omitempty"`
	Passengers       int                `bson:"passengers,omitempty" json:"passengers,omitempty"`
	SeatClass        string             `bson:"seat_class,omitempty" json:"seat_class,omitempty"`
	SelectedServices []string           `bson:"selected_services,omitempty" json:"selected_services,omitempty"`
	TotalAmount      float64            `bson:"total_amount" json:"total_amount"`
	PlatformFee      float64            `bson:"platform_fee" json:"platform_fee"`
	GrandTotal       float64            `bson:"grand_total" json:"grand_total"`
	Status           string             `bson:"status" json:"status"`
	PaymentStatus    string             `bson:"payment_status" json:"payment_status"`
	PaymentMethod    string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// CanTransitionTo encodes the allowed forward transitions. The completed and
// cancelled states are terminal; confirmed→completed only happens through
// payment capture.
func (b *Booking) CanTransitionTo(newStatus string) bool {
	switch b.Status {
	case BookingStatusPending:
		return newStatus == BookingStatusConfirmed || newStatus == BookingStatusCancelled
	case BookingStatusConfirmed:
		return newStatus == BookingStatusCancelled || newStatus == BookingStatusCompleted
	default:
		return false
	}
}

// IsPayable reports whether payment capture is valid for the booking's
// current state.
func (b *Booking) IsPayable() bool {
	return b.Status == BookingStatusConfirmed && b.PaymentStatus == PaymentStatusPending
}
