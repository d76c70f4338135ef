package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trustbridge-auth/internal/app"
	"trustbridge-auth/internal/domain"
)

// Handler exposes the portal to the browser front end as JSON.
type Handler struct {
	portal *app.Portal
	log    logrus.FieldLogger
}

func NewHandler(portal *app.Portal, log logrus.FieldLogger) *Handler {
	return &Handler{
		portal: portal,
		log:    log.WithField("component", "http"),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/logout", h.logout)
		api.GET("/session", h.session)
		api.GET("/transactions", h.listTransactions)
		api.PUT("/transactions/:id", h.saveTransaction)
		api.GET("/transactions/:id/owned", h.ownsTransaction)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": true})
		})
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	LoggedIn bool               `json:"loggedIn"`
	User     *domain.PublicUser `json:"user"`
}

type ownsResponse struct {
	Owned bool `json:"owned"`
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.Result{Err: "malformed request"})
		return
	}
	h.writeResult(c, h.portal.Register(c.Request.Context(), req.Username, req.Email, req.Password))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.Result{Err: "malformed request"})
		return
	}
	h.writeResult(c, h.portal.Login(c.Request.Context(), req.Identifier, req.Password))
}

// writeResult answers 200 for both outcomes; the body's ok flag carries the
// verdict. Store failures are the exception.
func (h *Handler) writeResult(c *gin.Context, res app.Result) {
	status := http.StatusOK
	if !res.OK && res.Err == app.UnavailableMessage {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.portal.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) {
	user, err := h.portal.GetUser(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{LoggedIn: user != nil, User: user})
}

func (h *Handler) listTransactions(c *gin.Context) {
	txs, err := h.portal.GetTransactions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *Handler) saveTransaction(c *gin.Context) {
	// an empty body, with or without a Content-Length, saves no payload
	var payload map[string]any
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payload must be a JSON object"})
			return
		}
	}
	if err := h.portal.SaveTransaction(c.Request.Context(), c.Param("id"), payload); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ownsTransaction(c *gin.Context) {
	owned, err := h.portal.OwnsTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ownsResponse{Owned: owned})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": app.UnavailableMessage})
}
