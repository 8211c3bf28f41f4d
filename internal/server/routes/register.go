package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/localhub/hfhub/internal/modelhub"
	"github.com/localhub/hfhub/internal/pathresolver"
)

// RegisterAll wires every handler onto app. Models and datasets each get
// their own repo-info/paths-info/tree triad under /api/models and
// /api/datasets; resolve and sha256 are unprefixed and only ever resolve
// against the model on-disk layout, per the external interface contract.
func RegisterAll(app *fiber.App, svc *modelhub.Service, logger *logrus.Logger) {
	RegisterRepoInfo(app, svc, pathresolver.KindModel, "/api/models")
	RegisterPathsInfo(app, svc, pathresolver.KindModel, "/api/models")
	RegisterTree(app, svc, pathresolver.KindModel, "/api/models")

	RegisterRepoInfo(app, svc, pathresolver.KindDataset, "/api/datasets")
	RegisterPathsInfo(app, svc, pathresolver.KindDataset, "/api/datasets")
	RegisterTree(app, svc, pathresolver.KindDataset, "/api/datasets")

	RegisterResolve(app, svc, logger, pathresolver.KindModel, "")
	RegisterSha256(app, svc, pathresolver.KindModel, "")

	RegisterDiagnostics(app, svc)
}
