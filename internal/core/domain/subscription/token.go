package subscription

import (
	"errors"
	"fmt"
	"io"
)

// TokenLength is the fixed length of a confirmation token.
const TokenLength = 25

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// tokenSampleLimit is the largest multiple of len(tokenAlphabet) that fits in
// a byte. Bytes at or above it are rejected to keep the distribution uniform.
const tokenSampleLimit = byte(256 - 256%len(tokenAlphabet))

// tokenEmptyReadLimit caps consecutive reads that return no bytes and no
// error, which io.Reader permits; a source stuck there would otherwise spin
// forever.
const tokenEmptyReadLimit = 8

// NewToken draws a confirmation token from src: TokenLength characters,
// uniformly distributed over [A-Za-z0-9]. Callers pass crypto/rand.Reader in
// production; tests may substitute a deterministic source.
func NewToken(src io.Reader) (string, error) {
	token := make([]byte, 0, TokenLength)
	buf := make([]byte, TokenLength)
	emptyReads := 0
	for len(token) < TokenLength {
		n, err := src.Read(buf)
		if err != nil {
			return "", fmt.Errorf("failed to read randomness source: %w", err)
		}
		if n == 0 {
			emptyReads++
			if emptyReads >= tokenEmptyReadLimit {
				return "", errors.New("randomness source is not producing bytes")
			}
			continue
		}
		emptyReads = 0
		for _, b := range buf[:n] {
			if b >= tokenSampleLimit {
				continue
			}
			token = append(token, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(token) == TokenLength {
				break
			}
		}
	}
	return string(token), nil
}
