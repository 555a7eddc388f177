package api

import (
	"context"
	"net/http"
)

// OutingClient talks to the outing domain of the remote API.
type OutingClient struct {
	client *Client
}

// NewOutingClient wraps the shared HTTP core for the outing domain.
func NewOutingClient(client *Client) *OutingClient {
	return &OutingClient{client: client}
}

// CreateOutingParams are the fields the app supplies when creating an outing.
type CreateOutingParams struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
	EventIDs     []string `json:"event_ids"`
}

// AddActivityParams are the fields for logging an expense on an outing.
type AddActivityParams struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Amount       float64  `json:"amount"`
	PayerID      string   `json:"payer_id"`
	Participants []string `json:"participants"`
	References   []string `json:"references"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// List fetches the full outing collection for the current user.
func (c *OutingClient) List(ctx context.Context) ([]OutingDTO, error) {
	outings, err := get[[]OutingDTO](ctx, c.client, "/outings", true)
	if err != nil {
		return nil, err
	}
	return *outings, nil
}

// Get fetches a single outing by id.
func (c *OutingClient) Get(ctx context.Context, id string) (*OutingDTO, error) {
	return get[OutingDTO](ctx, c.client, "/outings/"+id, true)
}

// Create creates a new outing and returns the server's record of it.
func (c *OutingClient) Create(ctx context.Context, params CreateOutingParams) (*OutingDTO, error) {
	return post[OutingDTO](ctx, c.client, "/outings", params, true)
}

// AddActivity logs an expense against the outing.
func (c *OutingClient) AddActivity(ctx context.Context, outingID string, params AddActivityParams) error {
	return c.client.call(ctx, http.MethodPost, "/outings/"+outingID+"/activities", params, true, nil)
}

// MarkDebtPaid settles a single debt on the outing.
func (c *OutingClient) MarkDebtPaid(ctx context.Context, outingID, debtID string) error {
	return c.client.call(ctx, http.MethodPost, "/outings/"+outingID+"/debts/"+debtID+"/paid", nil, true, nil)
}

// UpdateStatus moves the outing through its settlement lifecycle.
func (c *OutingClient) UpdateStatus(ctx context.Context, outingID, status string) error {
	return c.client.call(ctx, http.MethodPost, "/outings/"+outingID+"/status", updateStatusRequest{Status: status}, true, nil)
}
