package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	ts := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)
	id := "8c2f6f2e-1111-4222-8333-944444444444"

	token := EncodeCursor(ts, id)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedTs, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, ts, decodedTs, "Timestamp should match after decode")
	assert.Equal(t, id, decodedID, "ID should match after decode")
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, _, err := DecodeCursor("not-base64!!!")
	assert.Error(t, err, "Invalid base64 should fail")

	// Valid base64 but no separator.
	_, _, err = DecodeCursor("bm9zZXBhcmF0b3I=")
	assert.Error(t, err, "Missing separator should fail")
}
