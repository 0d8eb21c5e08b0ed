package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	HostBookingPrefix      = "HST"
	TransportBookingPrefix = "TRN"
	TripPrefix             = "BK"

	// MaxProfilePictureBytes caps decoded profile pictures at 5MB.
	MaxProfilePictureBytes = 5 * 1024 * 1024
)

// GenerateReferenceCode builds a human-readable reference of the form
// PREFIX-YYYY-NNNN. Uniqueness is the caller's responsibility; repositories
// retry against a unique index on collision.
func GenerateReferenceCode(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to draw reference suffix: %v", err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().Year(), n.Int64()), nil
}

// ValidateProfilePicture checks that the payload is an image data-URI and
// that its decoded size fits the upload cap. Both checks happen before
// anything is persisted.
func ValidateProfilePicture(dataURI string) error {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return fmt.Errorf("profile picture must be an image data URI")
	}

	idx := strings.Index(dataURI, ",")
	if idx < 0 {
		return fmt.Errorf("malformed data URI")
	}

	// base64 expands data by 4/3; recover the decoded byte size from the
	// encoded length without actually decoding 5MB of payload.
	encoded := dataURI[idx+1:]
	padding := strings.Count(encoded[max(0, len(encoded)-2):], "=")
	decodedSize := len(encoded)/4*3 - padding
	if decodedSize > MaxProfilePictureBytes {
		return fmt.Errorf("profile picture exceeds the 5MB limit")
	}

	return nil
}
