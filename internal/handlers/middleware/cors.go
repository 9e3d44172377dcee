package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS configura CORS a partir da lista de origens permitidas ("*" libera todas)
func CORS(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	switch {
	case slices.Contains(origins, "*"):
		// Com credenciais, "*" literal não é aceito pelos browsers; ecoa a origem
		config.AllowOriginFunc = func(string) bool { return true }
	case len(origins) == 0:
		config.AllowOriginFunc = func(string) bool { return false }
	default:
		config.AllowOrigins = origins
	}

	return cors.New(config)
}
