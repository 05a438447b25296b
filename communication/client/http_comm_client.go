package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tictactoe/communication"
)

type ClientCommunicator struct {
	serverURL string
	http      *http.Client
}

// NewClientCommunicator initializes and returns a new ClientCommunicator.
func NewClientCommunicator(serverURL string, timeout time.Duration) *ClientCommunicator {
	return &ClientCommunicator{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      &http.Client{Timeout: timeout},
	}
}

func (cc *ClientCommunicator) FindMove(ctx context.Context, req communication.FindMoveRequest) (communication.FindMoveResponse, error) {
	var resp communication.FindMoveResponse

	data, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("failed to encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.serverURL+"/findmove", bytes.NewReader(data))
	if err != nil {
		return resp, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if err := cc.do(httpReq, &resp); err != nil {
		return resp, fmt.Errorf("failed to find move: %w", err)
	}
	return resp, nil
}

func (cc *ClientCommunicator) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, cc.serverURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	var status map[string]bool
	if err := cc.do(httpReq, &status); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (cc *ClientCommunicator) do(req *http.Request, out any) error {
	resp, err := cc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
