package assets

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Verifier checks that asset URLs are actually reachable before a generated
// page references them, so a typo'd CDN template fails at build time instead
// of as a blank chart in the browser.
type Verifier struct {
	httpClient *http.Client
	userAgent  string
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithVerifyTimeout sets the per-request timeout. The default is 10 seconds.
func WithVerifyTimeout(timeout time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.httpClient.Timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header sent with checks.
func WithUserAgent(ua string) VerifierOption {
	return func(v *Verifier) {
		v.userAgent = ua
	}
}

// NewVerifier creates a verifier with the given options.
func NewVerifier(options ...VerifierOption) *Verifier {
	verifier := &Verifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: "bokehbridge",
	}

	for _, option := range options {
		option(verifier)
	}

	return verifier
}

// Check issues a HEAD request for the URL and reports any non-success
// status as an error.
func (v *Verifier) Check(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("checking %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("checking %s: unexpected status %s", url, resp.Status)
	}
	return nil
}
