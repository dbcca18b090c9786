package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"commons/internal/models"
)

// ReactionsClient talks to the reactions service.
type ReactionsClient interface {
	// GetCount returns the current reaction count for one target.
	GetCount(ctx context.Context, targetType models.TargetType, targetID uint) (int64, error)
}

type reactionsClient struct {
	*peerClient
}

// NewReactionsClient returns a ReactionsClient for the given base URL.
func NewReactionsClient(baseURL string, timeout time.Duration) ReactionsClient {
	return &reactionsClient{newPeerClient("reactions", baseURL, timeout)}
}

type countResponse struct {
	Count int64 `json:"count"`
}

func (c *reactionsClient) GetCount(ctx context.Context, targetType models.TargetType, targetID uint) (int64, error) {
	var out countResponse
	err := c.doJSON(ctx, "get_count", http.MethodGet,
		fmt.Sprintf("/api/reactions/%s/%d/count", targetType, targetID),
		nil, &out, nil)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Status == http.StatusNotFound {
			// A target with no reactions yet reads as zero
			return 0, nil
		}
		return 0, err
	}
	return out.Count, nil
}
