package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/localhub/hfhub/internal/modelhub"
	"github.com/localhub/hfhub/internal/pathresolver"
)

// processStart is used as the lastModified fallback when stat-ing the
// repository directory fails.
var processStart = timeNow()

func timeNow() time.Time { return time.Now().UTC() }

type siblingPayload struct {
	RFilename string `json:"rfilename"`
}

type repoInfoPayload struct {
	ID           string           `json:"id"`
	ModelID      string           `json:"modelId,omitempty"`
	DatasetID    string           `json:"datasetId,omitempty"`
	SHA          string           `json:"sha"`
	Siblings     []siblingPayload `json:"siblings"`
	UsedStorage  int64            `json:"usedStorage"`
	Private      bool             `json:"private"`
	Disabled     bool             `json:"disabled"`
	Gated        bool             `json:"gated"`
	LastModified string           `json:"lastModified"`
}

// RegisterRepoInfo registers GET /api/{kind}/{org}/{name} and the
// revision-scoped variant.
func RegisterRepoInfo(app *fiber.App, svc *modelhub.Service, kind pathresolver.RepoKind, prefix string) {
	handler := repoInfoHandler(svc, kind)
	app.Get(prefix+"/:org/:name", handler)
	app.Get(prefix+"/:org/:name/revision/:revision", handler)
}

func repoInfoHandler(svc *modelhub.Service, kind pathresolver.RepoKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		org := c.Params("org")
		name := c.Params("name")
		repoID := org + "/" + name
		revision := c.Params("revision")
		if revision == "" {
			revision = "main"
		}

		base, err := svc.Resolver.RepoBase(kind, repoID)
		if err != nil {
			return writeError(c, err)
		}

		result, err := svc.Siblings.Build(base)
		if err != nil {
			return writeError(c, err)
		}

		siblings := make([]siblingPayload, len(result.Siblings))
		for i, f := range result.Siblings {
			siblings[i] = siblingPayload{RFilename: f.RFilename}
		}

		payload := repoInfoPayload{
			ID:           repoID,
			SHA:          revision,
			Siblings:     siblings,
			UsedStorage:  result.UsedStorage,
			LastModified: lastModified(base).Format(time.RFC3339),
		}
		if kind == pathresolver.KindDataset {
			payload.DatasetID = repoID
		} else {
			payload.ModelID = repoID
		}

		if c.Query("full") != "1" {
			return writeJSON(c, 200, payload)
		}
		return writeJSON(c, 200, richRepoInfoPayload(payload, kind))
	}
}

// richRepoInfoPayload adds the fields spec.md's minimal shape omits: tags and
// the library_name/pipeline_tag placeholders for models, a "dataset" tag
// marker for datasets. Requested with ?full=1; the default response stays
// minimal so spec.md's documented JSON shape never changes.
func richRepoInfoPayload(base repoInfoPayload, kind pathresolver.RepoKind) fiber.Map {
	m := fiber.Map{
		"id":           base.ID,
		"sha":          base.SHA,
		"siblings":     base.Siblings,
		"usedStorage":  base.UsedStorage,
		"private":      base.Private,
		"disabled":     base.Disabled,
		"gated":        base.Gated,
		"lastModified": base.LastModified,
	}
	if kind == pathresolver.KindDataset {
		m["datasetId"] = base.DatasetID
		m["tags"] = []string{"dataset"}
		return m
	}
	m["modelId"] = base.ModelID
	m["tags"] = []string{}
	m["library_name"] = nil
	m["pipeline_tag"] = nil
	return m
}

func lastModified(base string) time.Time {
	info, err := os.Stat(base)
	if err != nil {
		return processStart
	}
	return info.ModTime().UTC()
}
