// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "safeharbor/internal/platform/net/http"
)

// Module is what the API composes: it mounts routes and may expose ports
// other modules consume
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
