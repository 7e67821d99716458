package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidArguments, 2},
		{CodeAuthMissing, 3},
		{CodeAuthInvalid, 3},
		{CodeNotFound, 1},
		{CodeRateLimited, 4},
		{CodeAPIError, 5},
		{CodeNetworkError, 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.ExitCode())
			assert.Equal(t, tt.want, (&Error{Code: tt.code}).ExitCode())
		})
	}
}

func TestSuggestionsNeverEmpty(t *testing.T) {
	for _, code := range []Code{CodeInvalidArguments, CodeAuthMissing, CodeAuthInvalid, CodeNotFound, CodeRateLimited, CodeAPIError, CodeNetworkError, Code("SOMETHING_ELSE")} {
		e := &Error{Code: code, Message: "x"}
		assert.NotEmpty(t, e.Suggestions(), "code %s", code)
	}
}

func TestWithSuggestKeepsDefaults(t *testing.T) {
	e := InvalidArgs("bad").WithSuggest("try this")
	s := e.Suggestions()
	require.GreaterOrEqual(t, len(s), 2)
	assert.Equal(t, "try this", s[0])
}

func TestClassifyWrapped(t *testing.T) {
	inner := NotFound("bookmark %d not found", 7)
	err := fmt.Errorf("get: %w", inner)

	ce := Classify(err, CodeAPIError)
	assert.Equal(t, CodeNotFound, ce.Code)
	assert.Equal(t, "bookmark 7 not found", ce.Message)
	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeAPIError))
}

func TestClassifyUnknown(t *testing.T) {
	ce := Classify(errors.New(`unknown command "frob" for "rd"`), CodeInvalidArguments)
	assert.Equal(t, CodeInvalidArguments, ce.Code)
	assert.Contains(t, ce.Message, "frob")
	assert.Nil(t, Classify(nil, CodeAPIError))
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	e := NetworkError(cause)
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "connection refused")
}
