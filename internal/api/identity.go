package api

import "context"

// IdentityClient talks to the identity domain of the remote API.
// Login and Signup are the only unauthenticated calls in the SDK.
type IdentityClient struct {
	client *Client
}

// NewIdentityClient wraps the shared HTTP core for the identity domain.
func NewIdentityClient(client *Client) *IdentityClient {
	return &IdentityClient{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session.
func (c *IdentityClient) Login(ctx context.Context, email, password string) (*SessionDTO, error) {
	return post[SessionDTO](ctx, c.client, "/identity/login", loginRequest{
		Email:    email,
		Password: password,
	}, false)
}

// Signup registers a new account and returns its first session.
func (c *IdentityClient) Signup(ctx context.Context, name, email, phone, password string) (*SessionDTO, error) {
	return post[SessionDTO](ctx, c.client, "/identity/signup", signupRequest{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password,
	}, false)
}

// Me returns the account behind the current session token.
func (c *IdentityClient) Me(ctx context.Context) (*IdentityDTO, error) {
	return get[IdentityDTO](ctx, c.client, "/identity/me", true)
}

// Logout invalidates the session token on the remote service.
func (c *IdentityClient) Logout(ctx context.Context) error {
	return c.client.call(ctx, "POST", "/identity/logout", nil, true, nil)
}
