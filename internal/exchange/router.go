package exchange

import (
	"github.com/betbot/propbet/pkg/config"
)

// BuildRouter binds a client per included source. Demo-only venues and dry
// runs get the simulated client; everything else talks REST.
func BuildRouter(settings *config.Settings, dryRun bool) *Router {
	router := NewRouter()
	for _, source := range settings.Exchange.IncludeSources {
		if dryRun || settings.IsDemoOnly(source) {
			router.Bind(source, NewSimulatedClient())
			continue
		}
		router.Bind(source, NewRESTClient(
			source,
			settings.Exchange.BaseURLs[source],
			settings.Exchange.RequestTimeoutSeconds,
		))
	}
	return router
}
