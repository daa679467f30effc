package voucher

import (
	"crypto/rand"
	"strings"
)

// Alphabet excludes 0/O, 1/I and 5/S so support never has to guess what a
// user typed off a screenshot.
const codeAlphabet = "ABCDEFGHJKLMNPQRTUVWXYZ234678"

const (
	codeGroups    = 3
	codeGroupSize = 4
)

// generateCode produces one crypto-random code like SV-K4MX-2NQ7-WRTC.
func generateCode() (string, error) {
	b := make([]byte, codeGroups*codeGroupSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("SV")
	for i, c := range b {
		if i%codeGroupSize == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return sb.String(), nil
}
