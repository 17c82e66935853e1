package controllers

import (
	"net/http"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// HealthHandler -> GET /health
func (c *HealthController) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
