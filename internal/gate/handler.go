package gate

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hostgate/internal/logger"
	"hostgate/internal/whitelist"
	"hostgate/pkg/errors"
	"hostgate/pkg/logging"
)

type RulesService interface {
	Store() *whitelist.Store
	Source() string
	ReloadNow(ctx context.Context) error
	AddPattern(ctx context.Context, pattern, changedBy string) error
	RemovePattern(ctx context.Context, pattern, changedBy string) error
}

type PingResponse struct {
	Allowed  bool          `json:"allowed"`
	Override *MotdOverride `json:"override"`
}

type RulesResponse struct {
	Source     string   `json:"source"`
	Generation uint64   `json:"generation"`
	Count      int      `json:"count"`
	Patterns   []string `json:"patterns"`
}

type RuleRequest struct {
	Pattern   string `json:"pattern" binding:"required"`
	ChangedBy string `json:"changed_by"`
}

type Handler struct {
	gate   *Gate
	rules  RulesService
	logger logger.Logger
}

func NewHandler(gate *Gate, rules RulesService, log logger.Logger) *Handler {
	return &Handler{gate: gate, rules: rules, logger: log}
}

func (h *Handler) HandleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
}

// RegisterRoutes mounts the API on router. Extra middleware, such as the rate
// limiter, applies to the whole /api/v1 group.
func (h *Handler) RegisterRoutes(router gin.IRouter, mw ...gin.HandlerFunc) {
	v1 := router.Group("/api/v1", mw...)
	{
		admission := v1.Group("/admission")
		{
			admission.POST("/login", h.Login)
			admission.POST("/ping", h.Ping)
		}

		rules := v1.Group("/rules")
		{
			rules.GET("", h.ListRules)
			rules.POST("", h.AddRule)
			rules.DELETE("", h.RemoveRule)
			rules.POST("/reload", h.ReloadRules)
		}
	}
}

// Login godoc
// @Summary      Decide a login handshake
// @Description  Evaluates the virtual host a client used against the hostname rules
// @Tags         admission
// @Accept       json
// @Produce      json
// @Param        connection  body      ConnectionContext  true  "Handshake details"
// @Success      200         {object}  Decision
// @Failure      400         {object}  map[string]interface{}
// @Router       /admission/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req ConnectionContext
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	ctx := logging.WithConnectionID(c.Request.Context(), uuid.NewString())
	c.JSON(http.StatusOK, h.gate.OnHandshake(ctx, req))
}

// Ping godoc
// @Summary      Decide a status ping
// @Description  Returns the MOTD override to show when the virtual host is not allowed
// @Tags         admission
// @Accept       json
// @Produce      json
// @Param        connection  body      ConnectionContext  true  "Ping details"
// @Success      200         {object}  PingResponse
// @Failure      400         {object}  map[string]interface{}
// @Router       /admission/ping [post]
func (h *Handler) Ping(c *gin.Context) {
	var req ConnectionContext
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	override := h.gate.OnPing(c.Request.Context(), req)
	c.JSON(http.StatusOK, PingResponse{Allowed: override == nil, Override: override})
}

// ListRules godoc
// @Summary      List hostname rules
// @Tags         rules
// @Produce      json
// @Success      200  {object}  RulesResponse
// @Router       /rules [get]
func (h *Handler) ListRules(c *gin.Context) {
	c.JSON(http.StatusOK, h.rulesResponse())
}

// AddRule godoc
// @Summary      Add a hostname pattern
// @Description  Appends a pattern to the rule source and reloads the active set
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        rule  body      RuleRequest  true  "Pattern to add"
// @Success      201   {object}  RulesResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      503   {object}  map[string]interface{}
// @Router       /rules [post]
func (h *Handler) AddRule(c *gin.Context) {
	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	if err := h.rules.AddPattern(c.Request.Context(), req.Pattern, changedBy(c, req.ChangedBy)); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.rulesResponse())
}

// RemoveRule godoc
// @Summary      Remove a hostname pattern
// @Tags         rules
// @Produce      json
// @Param        pattern     query     string  true   "Pattern to remove"
// @Param        changed_by  query     string  false  "Audit name"
// @Success      200         {object}  RulesResponse
// @Failure      400         {object}  map[string]interface{}
// @Failure      404         {object}  map[string]interface{}
// @Router       /rules [delete]
//
// RemoveRule takes the pattern from the query string so DELETE needs no body.
func (h *Handler) RemoveRule(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithMessage("pattern query parameter is required")))
		return
	}

	if err := h.rules.RemovePattern(c.Request.Context(), pattern, changedBy(c, c.Query("changed_by"))); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.rulesResponse())
}

// ReloadRules godoc
// @Summary      Reload hostname rules from the source
// @Tags         rules
// @Produce      json
// @Success      200  {object}  RulesResponse
// @Failure      503  {object}  map[string]interface{}
// @Router       /rules/reload [post]
func (h *Handler) ReloadRules(c *gin.Context) {
	if err := h.rules.ReloadNow(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.rulesResponse())
}

func (h *Handler) rulesResponse() RulesResponse {
	current := h.rules.Store().Current()
	patterns := current.Patterns()
	if patterns == nil {
		patterns = []string{}
	}
	return RulesResponse{
		Source:     h.rules.Source(),
		Generation: current.Generation(),
		Count:      current.Len(),
		Patterns:   patterns,
	}
}

func changedBy(c *gin.Context, fromRequest string) string {
	if fromRequest != "" {
		return fromRequest
	}
	return c.ClientIP()
}
