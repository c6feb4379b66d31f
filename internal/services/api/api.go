// Package api composes the HTTP API from its modules
package api

import (
	"safeharbor/internal/modkit"
	"safeharbor/internal/modkit/httpkit"
	"safeharbor/internal/platform/config"
	"safeharbor/internal/platform/logger"
	"safeharbor/internal/platform/metrics"
	phttp "safeharbor/internal/platform/net/http"

	analyzemod "safeharbor/internal/services/analyze/module"
	metamod "safeharbor/internal/services/api/meta/module"
)

// Options are the API options. Config is the unprefixed root
type Options struct {
	Config  config.Conf
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Mount installs the common middleware stack on r, the /metrics endpoint
// when CORE_API_METRICS is on, and every module under /api/v1
func Mount(r phttp.Router, opt Options) error {
	apiCfg := opt.Config.Prefix("CORE_API_")
	deps := modkit.Deps{
		Log:     opt.Logger,
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}

	r.Use(httpkit.CommonStack(httpkit.StackFromConfig(apiCfg, opt.Metrics))...)

	analyze, err := analyzemod.New(deps)
	if err != nil {
		return err
	}
	mods := []modkit.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Engine: analyze.Service().Engine()})),
		analyze,
		analyzemod.NewCatalog(analyze),
	}

	if opt.Metrics != nil && apiCfg.MayBool("METRICS", true) {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	httpkit.MountAPIV1(r, nil, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
			deps.Logger("api").Debug().Str("module", m.Name()).Msg("module mounted")
		}
	})
	return nil
}
