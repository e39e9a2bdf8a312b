package controllers

import (
	"github.com/pocketbase/pocketbase/core"

	"tweet-clock/helpers"
	"tweet-clock/models"
)

// @Summary Health Check Endpoint
// @Description Reports liveness and whether the model provider was configured
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (c *TweetController) Health(e *core.RequestEvent) error {
	aiService := "unavailable"
	if c.svc.GeneratorAvailable() {
		aiService = "available"
	}
	return helpers.Success(e, models.HealthResponse{
		Status:    "healthy",
		Message:   "API is running",
		AiService: aiService,
	})
}

func (c *TweetController) Root(e *core.RequestEvent) error {
	return helpers.Success(e, map[string]string{"message": "AI Tweet Generator API is running!"})
}
