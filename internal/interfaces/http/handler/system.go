package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/siniestros/backend/internal/infrastructure/logger"
	"github.com/siniestros/backend/internal/infrastructure/scheduler"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// JobLister exposes the state of background jobs
type JobLister interface {
	Jobs() []scheduler.JobState
}

// SystemHandler serves health and system information endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	env       string
	checks    map[string]HealthChecker
	jobs      JobLister
	timeout   time.Duration
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. Each check is pinged on /health.
// jobs may be nil when no scheduler runs.
func NewSystemHandler(name, version, env string, checks map[string]HealthChecker, jobs JobLister) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		env:       env,
		checks:    checks,
		jobs:      jobs,
		timeout:   3 * time.Second,
		startTime: time.Now(),
	}
}

// HealthResponse is the health endpoint payload
// @name HandlerHealthResponse
type HealthResponse struct {
	Status   string            `json:"status" example:"ok"`
	Checks   map[string]string `json:"checks"`
	Uptime   string            `json:"uptime" example:"1h30m45s"`
	Checked  string            `json:"checked_at" example:"2026-01-23T12:00:00Z"`
	Version  string            `json:"version" example:"1.0.0"`
	Instance string            `json:"instance" example:"siniestros-backend"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Liveness plus a ping of every backing service. Returns 503 when any check fails.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			logger.L(ctx).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	resp := HealthResponse{
		Status:   "ok",
		Checks:   results,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Checked:  time.Now().UTC().Format(time.RFC3339),
		Version:  h.version,
		Instance: h.name,
	}
	if status != http.StatusOK {
		resp.Status = "degraded"
	}
	c.JSON(status, resp)
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string             `json:"name" example:"siniestros-backend"`
	Version   string             `json:"version" example:"1.0.0"`
	Entorno   string             `json:"entorno" example:"production"`
	GoVersion string             `json:"go_version" example:"go1.25.5"`
	Uptime    string             `json:"uptime" example:"1h30m45s"`
	Trabajos  []JobStateResponse `json:"trabajos"`
}

// JobStateResponse is the state of one scheduled job
// @name HandlerJobStateResponse
type JobStateResponse struct {
	Nombre           string     `json:"nombre" example:"reserve_reconciliation"`
	Programacion     string     `json:"programacion" example:"0 3 * * *"`
	Estado           string     `json:"estado" example:"SUCCESS"`
	UltimoError      string     `json:"ultimo_error,omitempty"`
	Ejecuciones      int        `json:"ejecuciones" example:"12"`
	UltimoInicio     *time.Time `json:"ultimo_inicio,omitempty"`
	UltimoFin        *time.Time `json:"ultimo_fin,omitempty"`
	ProximaEjecucion *time.Time `json:"proxima_ejecucion,omitempty"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns version, environment, uptime and the state of scheduled jobs
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Security     BearerAuth
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		Entorno:   h.env,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Trabajos:  h.jobStates(),
	}))
}

func (h *SystemHandler) jobStates() []JobStateResponse {
	if h.jobs == nil {
		return []JobStateResponse{}
	}
	states := h.jobs.Jobs()
	out := make([]JobStateResponse, 0, len(states))
	for _, st := range states {
		resp := JobStateResponse{
			Nombre:       st.Name,
			Programacion: st.Schedule,
			Estado:       string(st.Status),
			UltimoError:  st.Error,
			Ejecuciones:  st.Runs,
			UltimoInicio: st.StartedAt,
			UltimoFin:    st.CompletedAt,
		}
		if !st.NextRun.IsZero() {
			next := st.NextRun
			resp.ProximaEjecucion = &next
		}
		out = append(out, resp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}
