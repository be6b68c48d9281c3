package util

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a random hex string used for request correlation.
func NewID() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewRecordID generates an identifier for a stored record:
// "<prefix>_<unix millis>_<9 random base36 chars>". The random suffix
// makes same-millisecond collisions astronomically unlikely; creates
// still use conditional writes as a backstop.
func NewRecordID(prefix string) string {
	return prefix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + randomBase36(9)
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(out)
}
