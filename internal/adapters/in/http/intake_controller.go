package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/clinic-intake-router/internal/config"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/json_types"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/in"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
	"github.com/suchimauz/clinic-intake-router/internal/core/services/intake_service"
)

const requestIDHeader = "X-Request-ID"

type IntakeController struct {
	useCase        in.IntakeUseCase
	cfg            *config.Config
	logger         out.LoggerPort
	metricsHandler http.Handler
}

// NewIntakeController metricsHandler может быть nil, тогда /metrics не регистрируется
func NewIntakeController(useCase in.IntakeUseCase, cfg *config.Config, logger out.LoggerPort, metricsHandler http.Handler) *IntakeController {
	return &IntakeController{
		useCase:        useCase,
		cfg:            cfg,
		logger:         logger,
		metricsHandler: metricsHandler,
	}
}

func (c *IntakeController) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID())

	router.GET("/health", c.health)
	if c.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(c.metricsHandler))
	}

	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/classify", c.classify)

		api.POST("/sessions", c.startSession)
		api.GET("/sessions/:sessionId", c.getSession)
		api.DELETE("/sessions/:sessionId", c.endSession)

		api.PUT("/sessions/:sessionId/selection", c.selectAppointment)
		api.GET("/sessions/:sessionId/selection", c.getSelection)

		api.GET("/sessions/:sessionId/dashboard", c.dashboard)
		api.GET("/sessions/:sessionId/view", c.defaultView)
		api.GET("/sessions/:sessionId/photo-mode/:screen", c.photoMode)

		api.POST("/sessions/:sessionId/route", c.route)
		api.POST("/sessions/:sessionId/advance", c.advance)
	}
}

type StartSessionRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SelectionRequest struct {
	Kind          domain.SelectionKind `json:"kind" binding:"required"`
	AppointmentID string               `json:"appointmentId" binding:"required"`
	DoctorName    string               `json:"doctorName"`
}

type RouteRequest struct {
	Kind          domain.SelectionKind `json:"kind" binding:"required"`
	AppointmentID string               `json:"appointmentId" binding:"required"`
}

// AdvanceRequest идентификаторы в params приходят и числами, и строками
type AdvanceRequest struct {
	From   domain.ScreenName        `json:"from" binding:"required"`
	Params map[string]json_types.ID `json:"params"`
}

func (r AdvanceRequest) RouteParams() domain.RouteParams {
	params := make(domain.RouteParams, len(r.Params))
	for name, value := range r.Params {
		if !value.IsEmpty() {
			params[name] = value.String()
		}
	}
	return params
}

func (c *IntakeController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": c.cfg.App.Version,
	})
}

func (c *IntakeController) classify(ctx *gin.Context) {
	status := ctx.Query("status")
	ctx.JSON(http.StatusOK, gin.H{
		"status": status,
		"bucket": intake_service.Classify(status),
	})
}

func (c *IntakeController) startSession(ctx *gin.Context) {
	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := c.useCase.StartSession(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

func (c *IntakeController) getSession(ctx *gin.Context) {
	session, err := c.useCase.GetSession(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, session)
}

func (c *IntakeController) endSession(ctx *gin.Context) {
	if err := c.useCase.EndSession(ctx.Request.Context(), ctx.Param("sessionId")); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *IntakeController) selectAppointment(ctx *gin.Context) {
	var req SelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selection := domain.Selection{
		Kind:          domain.SelectionKind(strings.ToLower(string(req.Kind))),
		AppointmentID: req.AppointmentID,
		DoctorName:    req.DoctorName,
	}
	if err := c.useCase.SelectAppointment(ctx.Request.Context(), ctx.Param("sessionId"), selection); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, selection)
}

func (c *IntakeController) getSelection(ctx *gin.Context) {
	selection, err := c.useCase.GetSelection(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, selection)
}

func (c *IntakeController) dashboard(ctx *gin.Context) {
	query := domain.DashboardQuery{
		Search: strings.TrimSpace(ctx.Query("search")),
	}

	if raw := ctx.Query("view"); raw != "" {
		view, ok := domain.ParseViewType(raw)
		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid view, expected consultation or treatment"})
			return
		}
		query.View = view
	}

	if raw := ctx.Query("status"); raw != "" && !strings.EqualFold(raw, "all") {
		bucket := intake_service.Classify(raw)
		if !bucket.IsFilterable() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status, expected Active, Ongoing or Completed"})
			return
		}
		query.Bucket = bucket
	}

	if raw := ctx.Query("debug"); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid debug flag"})
			return
		}
		query.Debug = debug
	}

	dashboard, err := c.useCase.Dashboard(ctx.Request.Context(), ctx.Param("sessionId"), query)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dashboard)
}

func (c *IntakeController) defaultView(ctx *gin.Context) {
	view, err := c.useCase.DefaultView(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (c *IntakeController) photoMode(ctx *gin.Context) {
	screen := domain.PhotoScreen(ctx.Param("screen"))

	mode, err := c.useCase.PhotoMode(ctx.Request.Context(), ctx.Param("sessionId"), screen)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"screen": screen,
		"mode":   mode,
	})
}

func (c *IntakeController) route(ctx *gin.Context) {
	var req RouteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := domain.SelectionKind(strings.ToLower(string(req.Kind)))
	decision, err := c.useCase.RouteAppointment(ctx.Request.Context(), ctx.Param("sessionId"), kind, req.AppointmentID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, decision)
}

func (c *IntakeController) advance(ctx *gin.Context) {
	var req AdvanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	decision, err := c.useCase.Advance(ctx.Request.Context(), ctx.Param("sessionId"), req.From, req.RouteParams())
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, decision)
}

func (c *IntakeController) respondError(ctx *gin.Context, err error) {
	status := statusFor(err)

	fields := out.LogFields{
		"path":      ctx.FullPath(),
		"sessionId": ctx.Param("sessionId"),
		"requestId": ctx.GetString(requestIDHeader),
		"status":    status,
		"error":     err.Error(),
	}
	if status >= http.StatusInternalServerError {
		c.logger.Error("http.request.failed", fields)
	} else {
		c.logger.Debug("http.request.rejected", fields)
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrAppointmentNotFound),
		errors.Is(err, domain.ErrNoSelection):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrIncompleteRecord),
		errors.Is(err, domain.ErrNoNextScreen),
		errors.Is(err, domain.ErrUnknownScreen):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDHeader, id)
		ctx.Header(requestIDHeader, id)
		ctx.Next()
	}
}

func (c *IntakeController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth || !c.validClient(username, password) {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Next()
	}
}

func (c *IntakeController) validClient(username, password string) bool {
	for _, client := range c.cfg.Auth.BasicClients {
		if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
			subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
			return true
		}
	}
	return false
}
