package livestatus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sznuper/bettertiles/internal/metrics"
)

// Querier answers table queries. Each row has one value per requested column.
type Querier interface {
	QueryTable(ctx context.Context, q Query) ([][]any, error)
}

// ResponseError is a non-200 answer from the backend.
type ResponseError struct {
	Code    int
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("livestatus: status %d: %s", e.Code, e.Message)
}

// Address is a parsed backend address.
type Address struct {
	Network string
	Addr    string
}

// ParseAddress parses a backend address.
//
// Supported forms:
//   - unix:///path/to/live → unix socket
//   - tcp://host:port      → TCP
//   - host:port            → TCP
func ParseAddress(s string) (Address, error) {
	switch {
	case strings.HasPrefix(s, "unix://"):
		path := strings.TrimPrefix(s, "unix://")
		if path == "" {
			return Address{}, fmt.Errorf("empty unix socket path in %q", s)
		}
		return Address{Network: "unix", Addr: path}, nil
	case strings.HasPrefix(s, "tcp://"):
		return parseTCP(strings.TrimPrefix(s, "tcp://"))
	case strings.Contains(s, "://"):
		return Address{}, fmt.Errorf("unsupported livestatus address scheme: %s", s)
	default:
		return parseTCP(s)
	}
}

func parseTCP(hostport string) (Address, error) {
	if _, _, err := net.SplitHostPort(hostport); err != nil {
		return Address{}, fmt.Errorf("invalid tcp address %q: %w", hostport, err)
	}
	return Address{Network: "tcp", Addr: hostport}, nil
}

// Client talks to a Livestatus socket, one connection per query.
type Client struct {
	addr    Address
	timeout time.Duration
}

// NewClient creates a Client. A zero timeout means the round trip is only
// bounded by ctx.
func NewClient(addr Address, timeout time.Duration) *Client {
	return &Client{addr: addr, timeout: timeout}
}

// QueryTable sends q and returns the decoded rows.
func (c *Client) QueryTable(ctx context.Context, q Query) (rows [][]any, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveQuery(q.Table, time.Since(start).Seconds(), err)
	}()

	req, err := q.Encode()
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, c.addr.Network, c.addr.Addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to livestatus: %w", err)
	}
	defer conn.Close()

	if err := applyDeadline(ctx, conn); err != nil {
		return nil, err
	}

	if _, err := io.WriteString(conn, req); err != nil {
		return nil, fmt.Errorf("sending query: %w", err)
	}

	body, err := readResponse(conn)
	if err != nil {
		return nil, err
	}
	return decodeRows(body)
}

// applyDeadline bounds all reads and writes on conn by the deadline of ctx.
func applyDeadline(ctx context.Context, conn net.Conn) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("setting connection deadline: %w", err)
	}
	return nil
}

// MaxResponseSize caps the body length a response header may announce.
const MaxResponseSize = 64 << 20

// readResponse reads a fixed16 header ("200          42\n") and the body.
func readResponse(r io.Reader) ([]byte, error) {
	header := make([]byte, 16)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading response header: %w", err)
	}

	code, err := strconv.Atoi(string(header[0:3]))
	if err != nil {
		return nil, fmt.Errorf("malformed response header %q", header)
	}
	length, err := strconv.Atoi(strings.TrimSpace(string(header[4:15])))
	if err != nil || length < 0 {
		return nil, fmt.Errorf("malformed response header %q", header)
	}

	if length > MaxResponseSize {
		return nil, fmt.Errorf("response body of %d bytes exceeds limit of %d", length, MaxResponseSize)
	}

	body, err := io.ReadAll(io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) != length {
		return nil, fmt.Errorf("reading response body: got %d of %d bytes: %w", len(body), length, io.ErrUnexpectedEOF)
	}

	if code != 200 {
		return nil, &ResponseError{Code: code, Message: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func decodeRows(body []byte) ([][]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var rows [][]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return rows, nil
}

// AsInt converts a decoded cell value to an int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
