package utils

import (
	"net/http"
	"strconv"

	"github.com/airenas/go-app/pkg/goapp"

	_ "net/http/pprof"
)

// RunPerfEndpoint starts the pprof endpoint if a port is configured
func RunPerfEndpoint(port int) {
	if port <= 0 {
		goapp.Log.Info().Msg("no debug.port provided - skip perf endpoint")
		return
	}
	goapp.Log.Info().Msgf("Starting Debug http endpoint at [::]:%d", port)
	if err := http.ListenAndServe(":"+strconv.Itoa(port), nil); err != nil {
		goapp.Log.Error().Err(err).Msg("can't start Debug endpoint")
	}
}
