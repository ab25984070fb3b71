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

func (c *Client) call(method string, req, resp any) error {
	return c.client.Call(ServiceName+"."+method, req, resp)
}

// Ping probes daemon liveness and reports its PID.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.call("Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.call("Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Classify runs supplied hash values through the daemon's classifier.
func (c *Client) Classify(hashes []string) (*ClassifyResponse, error) {
	var resp ClassifyResponse
	if err := c.call("Classify", ClassifyRequest{Hashes: hashes}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitJob enqueues a hash list for background classification.
func (c *Client) SubmitJob(req SubmitJobRequest) (*SubmitJobResponse, error) {
	var resp SubmitJobResponse
	if err := c.call("SubmitJob", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListJobs returns queue jobs optionally filtered by statuses.
func (c *Client) ListJobs(statuses []string) (*ListJobsResponse, error) {
	var resp ListJobsResponse
	if err := c.call("ListJobs", ListJobsRequest{Statuses: statuses}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DescribeJob returns details for a single job.
func (c *Client) DescribeJob(id int64) (*DescribeJobResponse, error) {
	var resp DescribeJobResponse
	if err := c.call("DescribeJob", DescribeJobRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearJobs removes jobs from the queue within the given scope.
func (c *Client) ClearJobs(scope string) (*ClearJobsResponse, error) {
	var resp ClearJobsResponse
	if err := c.call("ClearJobs", ClearJobsRequest{Scope: scope}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RetryJobs retries failed jobs. Empty ids means all failed jobs.
func (c *Client) RetryJobs(ids []int64) (*RetryJobsResponse, error) {
	var resp RetryJobsResponse
	if err := c.call("RetryJobs", RetryJobsRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.call("LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueueHealth returns queue diagnostics.
func (c *Client) QueueHealth() (*QueueHealthResponse, error) {
	var resp QueueHealthResponse
	if err := c.call("QueueHealth", QueueHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.call("DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
