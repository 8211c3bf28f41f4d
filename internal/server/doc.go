// Package server hosts the Fiber HTTP service and request middleware
// chain: panic recovery and request-ID assignment. It installs no access
// logging middleware. Route handlers themselves live in internal/server/routes and
// are registered against the *fiber.App this package builds.
package server
