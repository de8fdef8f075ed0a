package handlers

import (
	"net/http"

	"github.com/upb/record-gate/app"
)

// Version is reported by the status endpoint
const Version = "0.1.0"

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"version":        Version,
			"environment":    deps.Config.Environment,
			"storage":        deps.StorageBackend(),
			"roles":          deps.Catalog.Len(),
			"anonymous_role": deps.Gate.AnonymousRole(),
		}

		writeOK(w, response, deps.Logger)
	}
}
