package sync

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// roomCodeAlphabet excludes the visually ambiguous glyphs O/0 and I/1.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
)

// NewRoomCode generates a 6-character room code.
func NewRoomCode() string {
	var b strings.Builder
	max := big.NewInt(int64(len(roomCodeAlphabet)))
	for i := 0; i < roomCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to the first glyph rather than panic mid-session.
			b.WriteByte(roomCodeAlphabet[0])
			continue
		}
		b.WriteByte(roomCodeAlphabet[n.Int64()])
	}
	return b.String()
}

// ValidRoomCode reports whether a string is a well-formed room code.
func ValidRoomCode(code string) bool {
	if len(code) != roomCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(roomCodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
