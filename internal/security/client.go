// Package security builds the outbound HTTP client used to reach the
// external directory API.
package security

import (
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

// NewDirectoryClient returns an HTTP client for the directory API. By
// default the client refuses to connect to private, loopback, link-local and
// metadata addresses; safeurl validates the resolved IP in the dialer, which
// also covers DNS rebinding. allowPrivate disables the guard for
// deployments where the identity provider lives on an internal network.
func NewDirectoryClient(timeout time.Duration, allowPrivate bool) *http.Client {
	if allowPrivate {
		return &http.Client{Timeout: timeout}
	}

	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}
