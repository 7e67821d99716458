package attempt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestEffortSuccess(t *testing.T) {
	discarded := false
	v, ok := BestEffort("lookup", func() (int, error) { return 7, nil }, func(error) { discarded = true })
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.False(t, discarded)
}

func TestBestEffortFailureIsDiscarded(t *testing.T) {
	boom := errors.New("boom")
	var got error
	v, ok := BestEffort("lookup", func() (*string, error) {
		s := "partial"
		return &s, boom
	}, func(err error) { got = err })
	assert.False(t, ok)
	assert.Nil(t, v, "partial results are not leaked on failure")
	assert.ErrorIs(t, got, boom)
}

