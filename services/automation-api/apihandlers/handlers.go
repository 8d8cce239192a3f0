package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	triggerSecret string
	engine        *marketing.Engine
}

func NewHTTPHandler(
	triggerSecret string,
	engine *marketing.Engine,
) *HttpEndpoints {
	return &HttpEndpoints{
		triggerSecret: triggerSecret,
		engine:        engine,
	}
}
