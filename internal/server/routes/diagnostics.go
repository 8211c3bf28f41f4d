package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/localhub/hfhub/internal/modelhub"
	"github.com/localhub/hfhub/internal/repokind"
)

// RegisterDiagnostics exposes /-/diagnostics for operators to inspect cache
// hit/miss counters and the registered repository kinds.
func RegisterDiagnostics(app *fiber.App, svc *modelhub.Service) {
	app.Get("/-/diagnostics", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"cache_stats": svc.CacheStats(),
			"repo_kinds":  repokind.Keys(),
			"root_dir":    svc.Resolver.Root(),
		}
		return writeJSON(c, 200, payload)
	})
}
