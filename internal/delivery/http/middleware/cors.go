package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// defaultOrigins - локальные dev-серверы фронтенда
const defaultOrigins = "http://localhost:3000,http://localhost:5173"

// CORS - middleware для настройки Cross-Origin Resource Sharing.
// Credentials are allowed, so origins must never be a wildcard.
func CORS(origins string) fiber.Handler {
	if origins == "" || origins == "*" {
		origins = defaultOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Accept",
		AllowCredentials: true,
		MaxAge:           600,
	})
}
