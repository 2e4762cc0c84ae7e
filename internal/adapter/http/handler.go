package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"covidsim/internal/app/history"
	"covidsim/internal/app/ports"
	"covidsim/internal/app/simulation"
	"covidsim/internal/domain/epidemic"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	SimulationUC simulation.UseCase
	HistoryUC    history.UseCase
	KPI          kpiSnapshotProvider
	AllowOrigin  string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin))

	api := s.Group("/api")
	api.GET("/state", h.state)
	api.GET("/restart", h.restart)
	api.POST("/action", h.action)
	api.GET("/stats", h.stats)

	s.GET("/ops/kpi", h.kpi)
}

type actionRequest struct {
	PersonClicked *int `json:"person_clicked"`
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SimulationUC.State(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) restart(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SimulationUC.Restart(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.PersonClicked == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "person_clicked is required")
		return
	}

	resp, err := h.SimulationUC.GoHome(c, simulation.GoHomeRequest{PersonID: *body.PersonClicked})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) stats(c context.Context, ctx *app.RequestContext) {
	limit := 0
	if raw := string(ctx.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "limit must be an integer")
			return
		}
		limit = n
	}
	resp, err := h.HistoryUC.Execute(c, history.Request{
		SessionID: string(ctx.Query("session_id")),
		Limit:     limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, simulation.ErrInvalidRequest),
		errors.Is(err, history.ErrInvalidRequest),
		errors.Is(err, epidemic.ErrInvalidPopulation),
		errors.Is(err, epidemic.ErrCapacityExceeded):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, epidemic.ErrWalkRetriesExhausted):
		writeErrorBody(ctx, consts.StatusInternalServerError, "tick_failed", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
