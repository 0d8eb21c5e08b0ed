package helpers

import (
	"encoding/base64"
	"regexp"
	"strings"
	"testing"
)

func TestGenerateReferenceCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^(HST|TRN|BK)-\d{4}-\d{4}$`)
	for _, prefix := range []string{HostBookingPrefix, TransportBookingPrefix, TripPrefix} {
		code, err := GenerateReferenceCode(prefix)
		if err != nil {
			t.Fatalf("failed to generate reference: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Errorf("reference %q does not match expected format", code)
		}
	}
}

func TestValidateProfilePicture(t *testing.T) {
	smallImage := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("tiny"))
	oversized := "data:image/jpeg;base64," + strings.Repeat("A", (MaxProfilePictureBytes/3+10)*4)

	cases := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{name: "valid small image", input: smallImage},
		{name: "not a data uri", input: "https://example.com/pic.png", expectErr: true},
		{name: "wrong mime prefix", input: "data:text/plain;base64,aGVsbG8=", expectErr: true},
		{name: "missing payload separator", input: "data:image/png;base64", expectErr: true},
		{name: "over five megabytes", input: oversized, expectErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateProfilePicture(tc.input)
			if tc.expectErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := CheckPassword(hash, "s3cret!"); err != nil {
		t.Errorf("expected matching password to verify: %v", err)
	}
	if err := CheckPassword(hash, "wrongpass"); err == nil {
		t.Error("expected mismatched password to fail")
	}
}
