package instance

import (
	"github.com/angelmondragon/routes-report/pkg/env"
)

// GetID returns the process identifier attached to startup logs: the platform
// dyno name, then the host name, or "local".
func GetID() string {
	if id := env.Get("DYNO", ""); id != "" {
		return id
	}
	return env.Get("HOSTNAME", "local")
}
