// Package modkit provides module wiring and the deps every module receives
package modkit

import "safeharbor/internal/modkit/module"

// Module is the common surface for API modules
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
