// Package routes registers the HTTP handlers for repository info, tree
// listing, paths-info, file resolution, sha256, and diagnostics against a
// *fiber.App.
package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/localhub/hfhub/internal/apierr"
)

const jsonContentType = "application/json; charset=utf-8"

// writeJSON marshals body as the response, forcing the exact content type
// every JSON API response must carry.
func writeJSON(c fiber.Ctx, status int, body any) error {
	c.Status(status)
	c.Response().Header.SetContentType(jsonContentType)
	return c.JSON(body, jsonContentType)
}

// writeError renders err as the standard {"error": "..."} JSON body. Any
// error that isn't an *apierr.Error is treated as an unexpected internal
// failure.
func writeError(c fiber.Ctx, err error) error {
	apiErr, ok := err.(*apierr.Error)
	if !ok {
		return writeJSON(c, 500, fiber.Map{"error": "Internal error"})
	}
	return writeJSON(c, apiErr.Status, fiber.Map{"error": apiErr.ClientMessage()})
}
