package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/localhub/hfhub/internal/apierr"
	"github.com/localhub/hfhub/internal/modelhub"
	"github.com/localhub/hfhub/internal/pathresolver"
	"github.com/localhub/hfhub/internal/pathsinfo"
	"github.com/localhub/hfhub/internal/sidecar"
)

type pathsInfoBody struct {
	Paths  []string `json:"paths"`
	Expand bool     `json:"expand"`
}

// RegisterPathsInfo registers POST /api/{kind}/{org}/{name}/paths-info/{revision}.
func RegisterPathsInfo(app *fiber.App, svc *modelhub.Service, kind pathresolver.RepoKind, prefix string) {
	app.Post(prefix+"/:org/:name/paths-info/:revision", pathsInfoHandler(svc, kind))
}

func pathsInfoHandler(svc *modelhub.Service, kind pathresolver.RepoKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		org := c.Params("org")
		name := c.Params("name")
		repoID := org + "/" + name

		var body pathsInfoBody
		raw := c.Body()
		if len(raw) > 0 {
			if err := c.Bind().Body(&body); err != nil {
				return writeError(c, apierr.BadRequestf("malformed paths-info body: %v", err))
			}
		}

		base, err := svc.Resolver.RepoBase(kind, repoID)
		if err != nil {
			return writeError(c, err)
		}

		sc, err := svc.Sidecar.Load(base)
		if err != nil {
			return writeError(c, err)
		}

		facts, err := svc.PathsInfo.Resolve(base, sc, sidecar.Version(base), pathsinfo.Request{
			Paths:  body.Paths,
			Expand: body.Expand,
		})
		if err != nil {
			return writeError(c, err)
		}
		return writeJSON(c, 200, facts)
	}
}
