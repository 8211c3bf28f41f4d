package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/localhub/hfhub/internal/apierr"
	"github.com/localhub/hfhub/internal/modelhub"
	"github.com/localhub/hfhub/internal/pathresolver"
)

type sha256Payload struct {
	SHA256 string `json:"sha256"`
}

// RegisterSha256 registers GET /{org}/{name}/sha256/{revision}/{filename...}.
// HEAD on the same path is not supported and answers 405.
func RegisterSha256(app *fiber.App, svc *modelhub.Service, kind pathresolver.RepoKind, prefix string) {
	pattern := prefix + "/:org/:name/sha256/:revision/*"
	app.Get(pattern, sha256Handler(svc, kind))
	app.Head(pattern, func(c fiber.Ctx) error {
		return writeError(c, apierr.MethodNotAllowedf("HEAD is not supported on sha256 endpoints"))
	})
}

func sha256Handler(svc *modelhub.Service, kind pathresolver.RepoKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		org := c.Params("org")
		name := c.Params("name")
		repoID := org + "/" + name
		filename := c.Params("*")

		path, err := svc.Resolver.File(kind, repoID, filename)
		if err != nil {
			return writeError(c, err)
		}

		sum, err := svc.Hasher.SHA256(path)
		if err != nil {
			return writeError(c, err)
		}
		return writeJSON(c, 200, sha256Payload{SHA256: sum})
	}
}
