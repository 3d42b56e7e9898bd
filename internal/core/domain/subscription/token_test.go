package subscription_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpost/newsletter/internal/core/domain/subscription"
)

func TestNewToken_LengthAndAlphabet(t *testing.T) {
	token, err := subscription.NewToken(rand.Reader)
	require.NoError(t, err)

	assert.Len(t, token, subscription.TokenLength)
	for _, r := range token {
		isAlnum := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		assert.Truef(t, isAlnum, "unexpected character %q in token", r)
	}
}

func TestNewToken_DeterministicSource(t *testing.T) {
	// Identical sources must yield identical tokens: generation is pure.
	seed := make([]byte, 256)
	for i := range seed {
		seed[i] = byte(i)
	}

	first, err := subscription.NewToken(bytes.NewReader(seed))
	require.NoError(t, err)
	second, err := subscription.NewToken(bytes.NewReader(seed))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewToken_SkipsBiasedBytes(t *testing.T) {
	// Bytes that would bias the distribution are rejected, not wrapped around.
	biased := bytes.Repeat([]byte{0xFF}, 64)
	fair := bytes.Repeat([]byte{0}, subscription.TokenLength)

	token, err := subscription.NewToken(bytes.NewReader(append(biased, fair...)))
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{'A'}, subscription.TokenLength), []byte(token))
}

func TestNewToken_SourceFailure(t *testing.T) {
	_, err := subscription.NewToken(&failingReader{})
	require.Error(t, err)
}

func TestNewToken_StalledSource(t *testing.T) {
	// A source stuck at (0, nil) reads must error out instead of spinning.
	_, err := subscription.NewToken(&stalledReader{})
	require.Error(t, err)
}

type failingReader struct{}

func (r *failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

type stalledReader struct{}

func (r *stalledReader) Read(p []byte) (int, error) {
	return 0, nil
}
