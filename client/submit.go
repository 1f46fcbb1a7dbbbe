package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/theopenlane/httpsling"

	"github.com/crosti/buyerform/model"
)

// submitResponse is either {"success":true} or {"error":"..."}
type submitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Submit posts a profile to the submission endpoint. It satisfies the
// wizard's Submitter.
func (c *Client) Submit(ctx context.Context, p *model.BuyerProfile) error {
	requester := httpsling.MustNew(
		httpsling.URL(c.baseURL+SubmitPath),
		httpsling.Post(),
		httpsling.JSONBody(p),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	var out submitResponse
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK || !out.Success {
		if out.Error != "" {
			return fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode, out.Error)
		}
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}
