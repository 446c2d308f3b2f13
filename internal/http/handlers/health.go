package handlers

import (
	"net/http"
)

// Health reports liveness and which primary provider mode the service is in,
// so a deploy without a credential is visible at a glance.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	mode := "gemini"
	if a.Config.GeminiAPIKey == "" && a.Config.AppEnv == "development" {
		mode = "synthetic"
	}
	a.json(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "scenegen",
		"primary": mode,
	})
}
