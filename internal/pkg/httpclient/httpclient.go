package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Outbound call bounds used for remote verification targets.
const (
	DefaultDialTimeout  = 3 * time.Second
	DefaultTotalTimeout = 10 * time.Second
)

// New returns an HTTP client whose connection setup is bounded by dial and
// whose whole request (including reading the body) is bounded by total.
func New(dial, total time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   dial,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = dial
	transport.ResponseHeaderTimeout = total
	return &http.Client{
		Transport: transport,
		Timeout:   total,
	}
}
