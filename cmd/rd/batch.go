package main

import (
	"fmt"

	"github.com/steveyegge/rd/internal/clierr"
)

// partialFailure annotates a failed chunked operation with how much was
// committed before it stopped. Earlier chunks are not rolled back.
func partialFailure(err error, done, total int, verb string) error {
	if done == 0 {
		return err
	}
	ce := clierr.Classify(err, clierr.CodeAPIError)
	cp := *ce
	cp.Message = fmt.Sprintf("%s (%d of %d already %s)", ce.Error(), done, total, verb)
	cp.Err = nil
	return &cp
}
