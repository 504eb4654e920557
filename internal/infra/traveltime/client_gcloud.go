//go:build gcloud

package traveltime

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/idtoken"
)

// newHTTPClient authenticates calls to the travel time service with an ID
// token for its audience.
func newHTTPClient(audience string, timeout time.Duration) *http.Client {
	httpClient, err := idtoken.NewClient(context.Background(), audience)
	if err != nil {
		slog.Error("failed to create idtoken client, falling back to unauthenticated client",
			slog.String("error", err.Error()),
		)
		return &http.Client{
			Timeout: timeout,
		}
	}
	httpClient.Timeout = timeout
	return httpClient
}
