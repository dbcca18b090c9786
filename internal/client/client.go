// Package client implements outbound HTTP clients for calls between the
// Commons services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/observability"
)

// peerClient is the shared transport for talking to one peer service.
type peerClient struct {
	peer    string
	baseURL string
	http    *http.Client
}

func newPeerClient(peer, baseURL string, timeout time.Duration) *peerClient {
	return &peerClient{
		peer:    peer,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// doJSON performs one request against the peer. A nil out discards the
// response body. Non-2xx responses become upstream errors carrying the peer's
// status so callers can relay it.
func (c *peerClient) doJSON(ctx context.Context, operation, method, path string, body any, out any, headers map[string]string) error {
	start := time.Now()
	ctx, span := observability.GetTraceLayer().TracePeerCall(ctx, c.peer, operation)
	defer span.End()
	defer observability.ObservePeerRequest(c.peer, operation, start)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return models.NewInternalError(fmt.Sprintf("failed to encode %s request", operation), err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return models.NewInternalError(fmt.Sprintf("failed to build %s request", operation), err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return models.NewUpstreamError(fmt.Sprintf("%s service unreachable", c.peer), 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		middleware.Logger.WarnContext(ctx, "peer call failed",
			"peer", c.peer, "operation", operation, "status", resp.StatusCode)
		return models.NewUpstreamError(
			fmt.Sprintf("%s service returned status %d", c.peer, resp.StatusCode),
			resp.StatusCode, nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return models.NewUpstreamError(
				fmt.Sprintf("invalid response from %s service", c.peer), 0, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return nil
}

// authHeaders builds the header set for forwarding a caller's original
// credentials on orchestrated admin calls.
func authHeaders(originalAuth string) map[string]string {
	return map[string]string{"Authorization": originalAuth}
}
