package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// NewStudentCode produces a student identifier of the form
// STU<YY>-<4 hex>-<4 hex>-<4 hex>, e.g. STU26-3F0A-91BC-77DE. Six bytes
// of cryptographically secure randomness become twelve uppercase hex
// digits, partitioned into the three groups. The code is meant to be read
// over the phone and typed at a login form, which is why it is short,
// grouped, and visually unlike a password.
//
// The generator does not check uniqueness; the students table enforces it
// with a unique index and the registration flow regenerates on collision.
// With 48 bits of randomness per year a collision is not a practical
// concern at college population sizes.
func NewStudentCode(year int) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	random := strings.ToUpper(hex.EncodeToString(buf)) // 12 hex chars
	return fmt.Sprintf("STU%02d-%s-%s-%s", year%100, random[0:4], random[4:8], random[8:12]), nil
}
