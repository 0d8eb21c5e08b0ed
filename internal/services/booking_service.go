package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
)

const (
	dateLayout = "2006-01-02"

	// refMaxAttempts bounds the retry loop for reference-code collisions
	// against the unique index.
	refMaxAttempts = 5
)

var (
	cardNumberPattern   = regexp.MustCompile(`^\d{16}$`)
	cvvPattern          = regexp.MustCompile(`^\d{3}$`)
	bkashNumberPattern  = regexp.MustCompile(`^01[3-9]\d{8}$`)
	expiryMonthYearForm = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

type BookingService struct {
	bookingRepo   models.BookingRepo
	hostRepo      models.HostRepo
	transportRepo models.TransportationRepo
}

func NewBookingService(bookingRepo models.BookingRepo, hostRepo models.HostRepo, transportRepo models.TransportationRepo) *BookingService {
	return &BookingService{
		bookingRepo:   bookingRepo,
		hostRepo:      hostRepo,
		transportRepo: transportRepo,
	}
}

type CreateBookingRequest struct {
	BookingType      string   `json:"booking_type" binding:"required"`
	TargetID         string   `json:"target_id" binding:"required"`
	CheckIn          string   `json:"check_in"`
	CheckOut         string   `json:"check_out"`
	TravelDate       string   `json:"travel_date"`
	Guests           int      `json:"guests"`
	Passengers       int      `json:"passengers"`
	SeatClass        string   `json:"seat_class"`
	SelectedServices []string `json:"selected_services"`
	Notes            string   `json:"notes"`
}

type PaymentRequest struct {
	Method        string `json:"method" binding:"required"`
	CardNumber    string `json:"card_number"`
	CardExpiry    string `json:"card_expiry"`
	CardCVV       string `json:"card_cvv"`
	AccountNumber string `json:"account_number"`
}

// CreateBooking builds a booking against a host or a transportation listing.
// Monetary amounts are always recomputed from the listing's own price; totals
// supplied by the client are ignored. The derived trip projection is written
// in the same transaction as the booking.
func (bs *BookingService) CreateBooking(ctx context.Context, requester *models.User, req CreateBookingRequest) (*models.Booking, error) {
	targetID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.TargetID))
	if err != nil {
		return nil, models.Invalid("invalid target id")
	}

	now := time.Now()
	booking := &models.Booking{
		UserID:           requester.ID,
		BookingType:      req.BookingType,
		SelectedServices: req.SelectedServices,
		Notes:            req.Notes,
		Status:           models.BookingStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	trip := &models.Trip{
		UserID:    requester.ID,
		Status:    models.BookingStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var subtotal float64
	var prefix string

	switch req.BookingType {
	case models.BookingTypeHost:
		prefix = helpers.HostBookingPrefix
		host, err := bs.hostRepo.FindHostByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if !host.Available || !ComputeProfileStatus(host).Complete {
			return nil, models.ErrHostNotBookable
		}

		nights, err := nightsBetween(req.CheckIn, req.CheckOut)
		if err != nil {
			return nil, err
		}
		guests := req.Guests
		if guests <= 0 {
			guests = 1
		}
		if host.MaxGuests > 0 && guests > host.MaxGuests {
			return nil, models.Invalid("host accepts at most %d guests", host.MaxGuests)
		}
		if host.MinStay > 0 && nights < host.MinStay {
			return nil, models.Invalid("host requires a minimum stay of %d nights", host.MinStay)
		}

		subtotal = host.Price * float64(nights)
		booking.HostID = targetID
		booking.CheckIn = req.CheckIn
		booking.CheckOut = req.CheckOut
		booking.Guests = guests

		trip.Title = host.Name
		trip.Destination = host.Location
		trip.StartDate = req.CheckIn
		trip.EndDate = req.CheckOut
		trip.Travelers = guests

	case models.BookingTypeTransportation:
		prefix = helpers.TransportBookingPrefix
		transport, err := bs.transportRepo.FindTransportationByID(ctx, targetID)
		if err != nil {
			return nil, err
		}

		if strings.TrimSpace(req.TravelDate) == "" {
			return nil, models.Invalid("travel date is required")
		}
		if _, err := time.Parse(dateLayout, req.TravelDate); err != nil {
			return nil, models.Invalid("invalid travel date")
		}
		passengers := req.Passengers
		if passengers <= 0 {
			passengers = 1
		}

		subtotal = transport.Price * float64(passengers)
		booking.TransportationID = targetID
		booking.TravelDate = req.TravelDate
		booking.Passengers = passengers
		booking.SeatClass = req.SeatClass

		trip.Title = fmt.Sprintf("%s %s to %s", transport.Operator, transport.Origin, transport.Destination)
		trip.Destination = transport.Destination
		trip.StartDate = req.TravelDate
		trip.EndDate = req.TravelDate
		trip.Travelers = passengers

	default:
		return nil, models.Invalid("booking type must be host or transportation")
	}

	booking.TotalAmount = round2(subtotal)
	booking.PlatformFee = round2(subtotal * models.PlatformFeeRate)
	booking.GrandTotal = round2(booking.TotalAmount + booking.PlatformFee)
	trip.TotalCost = booking.GrandTotal

	// Reference codes are random; regenerate and retry when the unique index
	// reports a collision.
	for attempt := 0; attempt < refMaxAttempts; attempt++ {
		ref, err := helpers.GenerateReferenceCode(prefix)
		if err != nil {
			return nil, err
		}
		displayID, err := helpers.GenerateReferenceCode(helpers.TripPrefix)
		if err != nil {
			return nil, err
		}
		booking.BookingID = ref
		trip.DisplayID = displayID

		created, err := bs.bookingRepo.CreateBookingWithTrip(ctx, booking, trip)
		if err != nil {
			if errors.Is(err, models.ErrDuplicateReference) {
				continue
			}
			return nil, err
		}
		return created, nil
	}

	return nil, fmt.Errorf("could not allocate a unique booking reference")
}

func (bs *BookingService) GetBooking(ctx context.Context, id primitive.ObjectID, actor *models.User) (*models.Booking, error) {
	booking, err := bs.bookingRepo.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bs.canView(ctx, booking, actor) {
		return nil, models.ErrNotFound
	}
	return booking, nil
}

// Confirm moves a pending booking to confirmed. Only the owner of the booked
// host listing, or an admin, may confirm.
func (bs *BookingService) Confirm(ctx context.Context, id primitive.ObjectID, actor *models.User) (*models.Booking, error) {
	booking, err := bs.bookingRepo.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !bs.isHostOwner(ctx, booking, actor) && actor.Role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}
	if !booking.CanTransitionTo(models.BookingStatusConfirmed) {
		return nil, models.ErrInvalidTransition
	}

	return bs.bookingRepo.UpdateBookingStatus(
		ctx,
		id,
		[]string{models.BookingStatusPending},
		bson.M{"status": models.BookingStatusConfirmed},
	)
}

// Cancel moves a pending or confirmed booking to cancelled. A booking that
// was already paid is flagged refunded.
func (bs *BookingService) Cancel(ctx context.Context, id primitive.ObjectID, actor *models.User) (*models.Booking, error) {
	booking, err := bs.bookingRepo.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actor.ID && !bs.isHostOwner(ctx, booking, actor) && actor.Role != models.RoleAdmin {
		return nil, models.ErrForbidden
	}
	if !booking.CanTransitionTo(models.BookingStatusCancelled) {
		return nil, models.ErrInvalidTransition
	}

	set := bson.M{"status": models.BookingStatusCancelled}
	if booking.PaymentStatus == models.PaymentStatusPaid {
		set["payment_status"] = models.PaymentStatusRefunded
	}

	return bs.bookingRepo.UpdateBookingStatus(
		ctx,
		id,
		[]string{models.BookingStatusPending, models.BookingStatusConfirmed},
		set,
	)
}

// Pay validates the payment instrument and captures payment. Settlement is
// simulated; there is no gateway behind this.
func (bs *BookingService) Pay(ctx context.Context, id primitive.ObjectID, actor *models.User, req PaymentRequest) (*models.Booking, error) {
	booking, err := bs.bookingRepo.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.ID {
		return nil, models.ErrNotFound
	}
	if !booking.IsPayable() {
		return nil, models.ErrPaymentNotAllowed
	}

	if err := ValidatePaymentInstrument(req); err != nil {
		return nil, err
	}

	return bs.bookingRepo.MarkBookingPaid(ctx, id, req.Method)
}

func (bs *BookingService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	return bs.bookingRepo.ListBookingsByUser(ctx, userID)
}

// ListForHostOwner returns bookings made against any host listing the user
// owns.
func (bs *BookingService) ListForHostOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Booking, error) {
	hosts, err := bs.hostRepo.FindHostsByUserID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	hostIDs := make([]primitive.ObjectID, 0, len(hosts))
	for _, h := range hosts {
		hostIDs = append(hostIDs, h.ID)
	}
	return bs.bookingRepo.ListBookingsByHosts(ctx, hostIDs)
}

func (bs *BookingService) canView(ctx context.Context, booking *models.Booking, actor *models.User) bool {
	if booking.UserID == actor.ID || actor.Role == models.RoleAdmin {
		return true
	}
	return bs.isHostOwner(ctx, booking, actor)
}

func (bs *BookingService) isHostOwner(ctx context.Context, booking *models.Booking, actor *models.User) bool {
	if booking.BookingType != models.BookingTypeHost || booking.HostID.IsZero() {
		return false
	}
	host, err := bs.hostRepo.FindHostByID(ctx, booking.HostID)
	if err != nil {
		return false
	}
	return host.UserID == actor.ID
}

// ValidatePaymentInstrument checks the shape of the supplied card or mobile
// money details before the simulated settlement.
func ValidatePaymentInstrument(req PaymentRequest) error {
	switch req.Method {
	case models.PaymentMethodCard:
		number := strings.ReplaceAll(req.CardNumber, " ", "")
		if !cardNumberPattern.MatchString(number) {
			return models.Invalid("card number must be 16 digits")
		}
		if !cvvPattern.MatchString(req.CardCVV) {
			return models.Invalid("cvv must be 3 digits")
		}
		if err := validateCardExpiry(req.CardExpiry, time.Now()); err != nil {
			return err
		}
		return nil
	case models.PaymentMethodBkash:
		if !bkashNumberPattern.MatchString(req.AccountNumber) {
			return models.Invalid("bkash account must be an 11-digit number starting 013-019")
		}
		return nil
	default:
		return models.Invalid("payment method must be card or bkash")
	}
}

func validateCardExpiry(expiry string, now time.Time) error {
	if !expiryMonthYearForm.MatchString(expiry) {
		return models.Invalid("card expiry must be MM/YY")
	}
	parsed, err := time.Parse("01/06", expiry)
	if err != nil {
		return models.Invalid("card expiry must be MM/YY")
	}
	// A card is valid through the last day of its expiry month.
	endOfMonth := parsed.AddDate(0, 1, 0)
	if !now.Before(endOfMonth) {
		return models.Invalid("card has expired")
	}
	return nil
}

func nightsBetween(checkIn, checkOut string) (int, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return 0, models.Invalid("invalid check-in date")
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return 0, models.Invalid("invalid check-out date")
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 0, models.Invalid("check-out must be after check-in")
	}
	return nights, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
