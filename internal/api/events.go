package api

import (
	"context"
	"net/http"
)

// EventClient talks to the event domain of the remote API.
//
// List never carries filter parameters: type, date, and distance filtering
// are applied client-side over the cached collection (see the filter
// package), not pushed into the remote query.
type EventClient struct {
	client *Client
}

// NewEventClient wraps the shared HTTP core for the event domain.
func NewEventClient(client *Client) *EventClient {
	return &EventClient{client: client}
}

type purchaseRequest struct {
	TicketType string `json:"ticket_type"`
	Quantity   int    `json:"quantity"`
}

// List fetches the full event collection.
func (c *EventClient) List(ctx context.Context) ([]EventDTO, error) {
	events, err := get[[]EventDTO](ctx, c.client, "/events", true)
	if err != nil {
		return nil, err
	}
	return *events, nil
}

// Get fetches a single event by id.
func (c *EventClient) Get(ctx context.Context, id string) (*EventDTO, error) {
	return get[EventDTO](ctx, c.client, "/events/"+id, true)
}

// PurchaseTickets buys qty tickets of the named tier. The caller refetches
// the collection afterwards; no partial patching happens here.
func (c *EventClient) PurchaseTickets(ctx context.Context, eventID, ticketType string, qty int) error {
	return c.client.call(ctx, http.MethodPost, "/events/"+eventID+"/purchase", purchaseRequest{
		TicketType: ticketType,
		Quantity:   qty,
	}, true, nil)
}
