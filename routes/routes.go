package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/srgchrksv/ieltspodcaster/handlers"
	"github.com/srgchrksv/ieltspodcaster/services"
	"github.com/srgchrksv/ieltspodcaster/telemetry"
)

func RegisterRoutes(r *gin.Engine, services *services.Services, metrics *telemetry.Metrics, allowOrigins []string) {
	// Configure CORS middleware
	config := cors.DefaultConfig()
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowOrigins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(config))

	r.GET("/", handlers.Root)
	r.POST("/generate-dialogue", func(c *gin.Context) {
		handlers.GenerateDialogue(c, services)
	})
	r.POST("/text-to-speech", func(c *gin.Context) {
		handlers.TextToSpeech(c, services)
	})
	r.POST("/generate-podcast", func(c *gin.Context) {
		handlers.GeneratePodcast(c, services)
	})
	r.GET("/audio/:audio_id", func(c *gin.Context) {
		handlers.GetAudio(c, services)
	})
	r.POST("/speech-to-text", func(c *gin.Context) {
		handlers.SpeechToText(c, services)
	})
	r.GET("/podcast/stream", func(c *gin.Context) {
		handlers.StreamPodcast(c, services)
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
}
