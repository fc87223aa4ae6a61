package app

import "net/http"

type HealthcheckResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

func (app *application) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthcheckResponse{
		Status:      "UP",
		Version:     version,
		Environment: app.config.env,
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
