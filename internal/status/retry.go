// Package status computes and writes the condition-shaped status
// subresource of every CRD and upstream Gateway API object this system
// manages, per SPEC_FULL.md §4.G: GatewayClass, Gateway, HTTPRoute
// (per-parent), StaticResponseFilter. Every writer follows the same
// optimistic-retry discipline since status updates race with other
// clients, including kubectl and the upstream Gateway API conformance
// test suite.
package status

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

const maxAttempts = 5

// retryOnConflict runs attempt up to maxAttempts times, waiting
// 100ms*attempt between attempts whenever it returns a 409 Conflict;
// any other error or success returns immediately. Grounded on
// SPEC_FULL.md §4.G's "get -> compare -> serialize -> put; on 409,
// wait 100ms x attempt, re-get, retry; at most five attempts" -- the
// re-get itself is the caller's responsibility (attempt must be a
// closure that re-fetches before re-comparing).
func retryOnConflict(ctx context.Context, attempt func(n int) error) error {
	var lastErr error
	for n := 1; n <= maxAttempts; n++ {
		err := attempt(n)
		if err == nil {
			return nil
		}
		if !apierrors.IsConflict(err) {
			return err
		}
		lastErr = err

		select {
		case <-time.After(time.Duration(n) * 100 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("status: exceeded %d attempts, last error: %w", maxAttempts, lastErr)
}
