package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Deterministic(t *testing.T) {
	audio := []byte("fake audio payload")

	first := Fingerprint(audio)
	second := Fingerprint(audio)

	assert.Equal(t, first, second)
	assert.NotZero(t, first)
}

func TestFingerprint_DiffersPerContent(t *testing.T) {
	a := Fingerprint([]byte("lecture one"))
	b := Fingerprint([]byte("lecture two"))

	assert.NotEqual(t, a, b)
}

func TestFingerprint_EmptyContent(t *testing.T) {
	// Empty payloads never reach Fingerprint through the pipeline, but the
	// function itself must not panic on them.
	assert.NotPanics(t, func() {
		Fingerprint(nil)
	})
}
