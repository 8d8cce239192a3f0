package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/fixbroin/wecanfix-backend/pkg/apihelpers/middlewares"
	"github.com/fixbroin/wecanfix-backend/pkg/marketing"
)

func (h *HttpEndpoints) AddRoutes(rg *gin.RouterGroup) {
	automation := rg.Group("/marketing-automation")

	automation.GET("/run",
		mw.HasValidTriggerSecret(h.triggerSecret),
		h.runAutomation)
}

// runAutomation executes one full automation run, triggered by the external
// scheduler.
func (h *HttpEndpoints) runAutomation(c *gin.Context) {
	report, err := h.engine.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, marketing.ErrSettingsNotFound) {
			slog.Error("Automation settings missing, run aborted")
			c.JSON(http.StatusInternalServerError, gin.H{"status": "Settings not found"})
			return
		}
		if errors.Is(err, marketing.ErrRunAlreadyActive) {
			slog.Warn("Automation run still active, new trigger rejected")
			c.JSON(http.StatusConflict, gin.H{"status": "busy"})
			return
		}
		slog.Error("Automation run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "sent": report.Sent})
}
