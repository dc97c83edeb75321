package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skagos/emr-front/internal/orthanc"
)

// corsHeaders sets the cross-origin headers the browser requires on every
// response, including error responses the gateway synthesizes itself. The
// cors middleware installed in main covers real preflights; this keeps the
// headers present for Origin-less callers too.
func corsHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, X-Requested-With")
		c.Next()
	}
}

// RegisterRoutes sets up the gateway routes.
func RegisterRoutes(router *gin.Engine, orthancClient *orthanc.Client) {
	handler := NewAPIHandler(orthancClient)

	router.Use(corsHeaders())

	router.OPTIONS("/instances", handler.PreflightHandler)
	router.POST("/instances", handler.StoreInstanceHandler)
	router.GET("/study-info/:studyId", handler.StudyInfoHandler)
	router.GET("/studies", handler.ListStudiesHandler)
	router.GET("/ping", handler.PingHandler)
}
