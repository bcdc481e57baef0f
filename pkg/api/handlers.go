package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"signup-relay/pkg/models"
	"signup-relay/pkg/services"
)

const (
	SignupPage      = "/signup.html"
	ThankYouPage    = "/thankyou.html"
	SignupFailedMsg = "Sign Up Failed :("
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	signupService services.SignupService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(signupService services.SignupService) *Handlers {
	return &Handlers{
		signupService: signupService,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Root sends visitors to the signup form
func (h *Handlers) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, SignupPage)
}

// HandleSignup relays a form or JSON submission to the mailing list
func (h *Handlers) HandleSignup(c *gin.Context) {
	var submission models.SignupSubmission

	// Form-encoded and JSON bodies are both accepted, picked by Content-Type
	if err := c.ShouldBind(&submission); err != nil {
		logrus.Warnf("Error binding signup body: %v", err)
		c.String(http.StatusOK, SignupFailedMsg)
		return
	}

	outcome := h.signupService.Relay(c.Request.Context(), submission)
	if outcome.Succeeded() {
		c.Redirect(http.StatusFound, ThankYouPage)
		return
	}

	c.String(http.StatusOK, SignupFailedMsg)
}
