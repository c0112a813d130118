package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Folio.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns catalog items, optionally filtered.
func (c *Client) List(req ListRequest) (*ListResponse, error) {
	var resp ListResponse
	if err := c.client.Call("Folio.List", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Describe returns details for a single item.
func (c *Client) Describe(id string) (*DescribeResponse, error) {
	var resp DescribeResponse
	if err := c.client.Call("Folio.Describe", DescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reconcile runs metadata reconciliation for an item.
func (c *Client) Reconcile(req ReconcileRequest) (*ReconcileResponse, error) {
	var resp ReconcileResponse
	if err := c.client.Call("Folio.Reconcile", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserUpdate patches an item's user-owned fields.
func (c *Client) UserUpdate(req UserUpdateRequest) (*UserUpdateResponse, error) {
	var resp UserUpdateResponse
	if err := c.client.Call("Folio.UserUpdate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CoverSearch fetches provider-ranked cover candidates for an item.
func (c *Client) CoverSearch(id string) (*CoverSearchResponse, error) {
	var resp CoverSearchResponse
	if err := c.client.Call("Folio.CoverSearch", CoverSearchRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CoverSet installs a new cover for an item.
func (c *Client) CoverSet(req CoverSetRequest) (*CoverSetResponse, error) {
	var resp CoverSetResponse
	if err := c.client.Call("Folio.CoverSet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logs reads daemon log lines.
func (c *Client) Logs(req LogsRequest) (*LogsResponse, error) {
	var resp LogsResponse
	if err := c.client.Call("Folio.Logs", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Folio.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
