// Package httputil provides retry helpers for repository transports.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only for errors
// marked transient with [Retryable]:
//
//   - connection failures and timeouts
//   - 5xx responses
//
// Everything else (404, malformed responses) is returned on the first
// attempt, so a missing artifact is never fetched three times:
//
//	err := httputil.Retry(ctx, 3, 200*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
package httputil
