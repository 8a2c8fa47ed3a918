package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	sortTime := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursor(sortTime, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedTime, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, sortTime, decodedTime, "Sort time should match after decode")
	assert.Equal(t, int64(42), decodedID, "Row id should match after decode")

	// Current time round-trips through RFC3339Nano.
	now := time.Now().UTC()
	nowToken := EncodeCursor(now, 1)
	decodedNow, _, err := DecodeCursor(nowToken)
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeCursorError(t *testing.T) {
	_, _, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Base64 of a bare timestamp without the id part.
	_, _, err = DecodeCursor("MjAyNC0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for a token without a separator")
	assert.Contains(t, err.Error(), "split")

	// Base64 of "notadate|42".
	_, _, err = DecodeCursor("bm90YWRhdGV8NDI=")
	assert.Error(t, err, "Should return an error for an invalid timestamp")
	assert.Contains(t, err.Error(), "time parse")

	// Base64 of "2024-05-15T00:00:00Z|notanid".
	_, _, err = DecodeCursor("MjAyNC0wNS0xNVQwMDowMDowMFp8bm90YW5pZA==")
	assert.Error(t, err, "Should return an error for an invalid row id")
	assert.Contains(t, err.Error(), "id parse")
}
