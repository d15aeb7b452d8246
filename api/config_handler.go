package api

import (
	"net/http"

	"github.com/seenimoa/quantsignal/internal/config"
)

// ConfigResponse is the JSON envelope returned by GET /config.
type ConfigResponse struct {
	Config     *config.Config `json:"config"`
	ConfigFile string         `json:"config_file"` // path to the active config file
}

// handleGetConfig returns the running configuration. It is read-only;
// changes go through the config file or QUANTSIGNAL_* variables.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     s.cfg,
			ConfigFile: s.cfg.File,
		},
	})
}
