// Package netstatus answers "can the service reach its backends right now?"
// and turns transport errors into messages fit for a client.
package netstatus

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	MsgConnection = "Network connection error. Please check your internet connection and try again."
	MsgTimeout    = "Request timed out. The server is taking too long to respond."
	msgGeneric    = "A network error occurred: "
)

// Probe checks one backend.
type Probe func(ctx context.Context) error

// Check is the outcome of one probe.
type Check struct {
	Name     string `json:"name"`
	OK       bool   `json:"ok"`
	Required bool   `json:"required"`
	Error    string `json:"error,omitempty"`
}

// Status is a snapshot of every probe. Online is true when all required
// probes pass.
type Status struct {
	Online    bool      `json:"online"`
	Checks    []Check   `json:"checks"`
	CheckedAt time.Time `json:"checkedAt"`
}

type probe struct {
	name     string
	required bool
	fn       Probe
}

// Checker runs registered probes concurrently under a shared timeout.
type Checker struct {
	timeout time.Duration
	probes  []probe
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{timeout: timeout}
}

// Require registers a probe that must pass for the service to be online.
func (c *Checker) Require(name string, fn Probe) *Checker {
	c.probes = append(c.probes, probe{name: name, required: true, fn: fn})
	return c
}

// Optional registers a probe that is reported but does not affect Online.
func (c *Checker) Optional(name string, fn Probe) *Checker {
	c.probes = append(c.probes, probe{name: name, fn: fn})
	return c
}

// Snapshot runs every probe and reports the result. A probe still running
// when the timeout expires is reported as timed out.
func (c *Checker) Snapshot(ctx context.Context) Status {
	return c.run(ctx, c.probes)
}

// Online reports whether every required probe passes. Optional probes are
// not run.
func (c *Checker) Online(ctx context.Context) bool {
	var required []probe
	for _, p := range c.probes {
		if p.required {
			required = append(required, p)
		}
	}
	return c.run(ctx, required).Online
}

type result struct {
	i   int
	err error
}

func (c *Checker) run(ctx context.Context, probes []probe) Status {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	checks := make([]Check, len(probes))
	// buffered: probes that outlive the timeout must not block on send
	results := make(chan result, len(probes))
	for i, p := range probes {
		checks[i] = Check{Name: p.name, Required: p.required, Error: MsgTimeout}
		go func(i int, p probe) {
			results <- result{i: i, err: p.fn(ctx)}
		}(i, p)
	}

collect:
	for pending := len(probes); pending > 0; pending-- {
		select {
		case r := <-results:
			checks[r.i].OK = r.err == nil
			checks[r.i].Error = ErrorMessage(r.err)
		case <-ctx.Done():
			break collect
		}
	}

	sort.SliceStable(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })
	online := true
	for _, ch := range checks {
		if ch.Required && !ch.OK {
			online = false
		}
	}
	return Status{Online: online, Checks: checks, CheckedAt: time.Now().UTC()}
}

// ErrorMessage classifies err as a connection failure, a timeout or
// anything else.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if isTimeout(err) {
		return MsgTimeout
	}
	if isConnection(err) {
		return MsgConnection
	}
	return msgGeneric + err.Error()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}

func isConnection(err error) bool {
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return true
	case errors.Is(err, mysql.ErrInvalidConn), errors.Is(err, driver.ErrBadConn):
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "no such host", "failed to connect", "broken pipe"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
