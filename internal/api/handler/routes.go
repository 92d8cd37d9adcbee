package handler

import (
	"net/http"

	"github.com/vfg2006/ads-report-sync/internal/api/handler/router"
	"github.com/vfg2006/ads-report-sync/internal/usecases/authenticating"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Sync(trigger SyncTrigger, runs RunLister) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync/:type/run",
			Method:  http.MethodPost,
			Handler: RunSync(trigger),
		},
		{
			Path:    "/v1/sync/status",
			Method:  http.MethodGet,
			Handler: GetSyncStatus(trigger),
		},
		{
			Path:    "/v1/sync/runs",
			Method:  http.MethodGet,
			Handler: ListRuns(runs),
		},
	}
}
