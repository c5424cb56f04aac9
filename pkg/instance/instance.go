// Package instance names the running process for log correlation.
package instance

import (
	"os"

	"github.com/angelmondragon/stockroom-backend/pkg/env"
)

// ID returns STOCKROOM_INSTANCE_ID, then the platform dyno name, then the hostname.
func ID() string {
	if id := env.First("", "STOCKROOM_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
