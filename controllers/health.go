package controllers

import (
	"context"
	"net/http"
	"time"

	"piercing-studio-site/services"

	"github.com/gin-gonic/gin"
)

const upstreamCheckTimeout = 5 * time.Second

type HealthController struct {
	API       services.StudioAPI
	Version   string
	StartTime time.Time
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Live confirms the process is serving.
func (h *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, h.response("UP", map[string]Check{"process": {Status: "UP"}}))
}

// Ready also checks the studio API. The site still renders without it, but
// it cannot show prices or accept forms.
func (h *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamCheckTimeout)
	defer cancel()

	checks := map[string]Check{"process": {Status: "UP"}}
	status, code := "UP", http.StatusOK
	if err := h.API.Health(ctx); err != nil {
		checks["studio_api"] = Check{Status: "DOWN", Message: err.Error()}
		status, code = "DOWN", http.StatusServiceUnavailable
	} else {
		checks["studio_api"] = Check{Status: "UP"}
	}
	c.JSON(code, h.response(status, checks))
}

func (h *HealthController) response(status string, checks map[string]Check) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.StartTime).Round(time.Second).String(),
		Version:   h.Version,
		Checks:    checks,
	}
}
