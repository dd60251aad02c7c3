package llmaudit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// callTimeout is the fixed per-call timeout from spec.md 4.4.3: "one
// request per LLM call, 180-second timeout, streaming not required."
const callTimeout = 180 * time.Second

// httpClient is shared across calls; grounded on the teacher's
// internal/pkgcheck/provider/osv.go ("plain net/http, no client library").
var httpClient = &http.Client{Timeout: callTimeout}

// call issues one LLM request for the given provider/model and returns the
// dialect-normalised response, or a structured *AuditError classified per
// spec.md section 7. It never retries.
func call(ctx context.Context, p Provider, modelName, system, user string) (parsedResponse, *AuditError) {
	apiKey := os.Getenv(p.EnvVar)
	if apiKey == "" {
		return parsedResponse{}, &AuditError{
			Kind: ErrProviderAuth,
			Text: fmt.Sprintf("%s is not set", p.EnvVar),
			Hint: fmt.Sprintf("export %s to use the %s provider", p.EnvVar, p.Name),
		}
	}

	wire, err := buildRequest(p, apiKey, modelName, system, user)
	if err != nil {
		return parsedResponse{}, &AuditError{Kind: ErrProviderServer, Text: "failed to build request body: " + err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, wire.Method, wire.URL, bytes.NewReader(wire.Body))
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err // the URL can carry the API key (Gemini's ?key=)
	}
	if err != nil {
		return parsedResponse{}, &AuditError{Kind: ErrProviderServer, Text: "failed to construct HTTP request: " + err.Error()}
	}
	for k, v := range wire.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := httpClient.Do(httpReq)
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	if err != nil {
		return parsedResponse{}, &AuditError{Kind: ErrProviderServer, Text: "request failed: " + err.Error(), Hint: "check network connectivity to " + p.BaseURL}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return parsedResponse{}, &AuditError{Kind: ErrProviderServer, Text: "failed to read response body: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return parsedResponse{}, classifyHTTPError(resp.StatusCode, string(respBody))
	}

	return parseResponse(p, respBody), nil
}
