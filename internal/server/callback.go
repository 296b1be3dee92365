package server

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/aerial/internal/shared"
)

// ReadTimeout bounds how long an accepted connection may take to deliver its request head.
const ReadTimeout = 10 * time.Second

//go:embed templates/callback.html
var callbackPage string

var (
	ErrBindFailed       = fmt.Errorf("failed to bind callback listener")
	ErrAcceptFailed     = fmt.Errorf("failed to accept callback connection")
	ErrMalformedRequest = fmt.Errorf("malformed callback request")
)

// CallbackError reports which terminal state the listener ended in and what caused it.
type CallbackError struct {
	State error
	Err   error
}

func (e *CallbackError) Error() string {
	switch {
	case e.Err == nil:
		return e.State.Error()
	case errors.Is(e.Err, e.State):
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %v", e.State, e.Err)
}

// Unwrap exposes the terminal state, the shared callback kind and the cause.
func (e *CallbackError) Unwrap() []error {
	errs := []error{e.State, shared.ErrCallback}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// CallbackRequest is the parsed head of the single inbound redirect.
//
// Params holds one value per query key; when a key repeats the first value wins.
type CallbackRequest struct {
	Method string
	Path   string
	Params map[string]string
}

// CallbackListener is a one-shot HTTP receiver on localhost.
type CallbackListener struct {
	ln   net.Listener
	used bool
}

// NewCallbackListener binds localhost:port. Port 0 picks a free port, see [CallbackListener.Port].
func NewCallbackListener(port int) (*CallbackListener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return nil, &CallbackError{State: ErrBindFailed, Err: err}
	}
	return &CallbackListener{ln: ln}, nil
}

// Port returns the bound port.
func (l *CallbackListener) Port() int {
	if addr, ok := l.ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Accept waits for exactly one connection, parses it, responds and closes the listener.
func (l *CallbackListener) Accept() (*CallbackRequest, error) {
	if l.used {
		return nil, &CallbackError{State: ErrAcceptFailed, Err: fmt.Errorf("listener already used")}
	}
	l.used = true
	defer l.ln.Close()

	conn, err := l.ln.Accept()
	if err != nil {
		return nil, &CallbackError{State: ErrAcceptFailed, Err: err}
	}
	defer conn.Close()

	req, err := readRequest(conn)
	writePage(conn, err == nil)
	if err != nil {
		return nil, &CallbackError{State: ErrMalformedRequest, Err: err}
	}
	return req, nil
}

// Close releases the port without accepting. Safe to call after Accept.
func (l *CallbackListener) Close() error {
	l.used = true
	return l.ln.Close()
}

// Listen binds localhost:port and returns the first request received on it.
func Listen(port int) (*CallbackRequest, error) {
	l, err := NewCallbackListener(port)
	if err != nil {
		return nil, err
	}
	return l.Accept()
}

func readRequest(conn net.Conn) (*CallbackRequest, error) {
	if err := conn.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
		return nil, err
	}

	tp := textproto.NewReader(bufio.NewReader(conn))
	line, err := tp.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("reading request line: %w", err)
	}

	req, err := ParseRequestLine(line)
	if err != nil {
		return nil, err
	}

	if _, err := tp.ReadMIMEHeader(); err != nil {
		return nil, fmt.Errorf("reading headers: %w", err)
	}
	return req, nil
}

// ParseRequestLine parses an HTTP/1.x request line such as
// "GET /callback?code=ABC123&state=xyz HTTP/1.1".
func ParseRequestLine(line string) (*CallbackRequest, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}

	method, target, proto := fields[0], fields[1], fields[2]
	if !strings.HasPrefix(proto, "HTTP/") {
		return nil, fmt.Errorf("%w: unsupported protocol %q", ErrMalformedRequest, proto)
	}

	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	params := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	return &CallbackRequest{Method: method, Path: u.Path, Params: params}, nil
}

func writePage(conn net.Conn, ok bool) {
	status := "200 OK"
	if !ok {
		status = "400 Bad Request"
	}

	conn.SetWriteDeadline(time.Now().Add(ReadTimeout))
	fmt.Fprintf(conn,
		"HTTP/1.1 %s\r\nContent-Type: text/html; charset=utf-8\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s",
		status, len(callbackPage), callbackPage)
}
