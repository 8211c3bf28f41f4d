package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/localhub/hfhub/internal/modelhub"
	"github.com/localhub/hfhub/internal/pathresolver"
	"github.com/localhub/hfhub/internal/sidecar"
	"github.com/localhub/hfhub/internal/siblings"
)

// RegisterTree registers GET /api/{kind}/{org}/{name}/tree/{revision}.
func RegisterTree(app *fiber.App, svc *modelhub.Service, kind pathresolver.RepoKind, prefix string) {
	app.Get(prefix+"/:org/:name/tree/:revision", treeHandler(svc, kind))
}

func treeHandler(svc *modelhub.Service, kind pathresolver.RepoKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		org := c.Params("org")
		name := c.Params("name")
		repoID := org + "/" + name
		recursive := c.Query("recursive") == "1"
		expand := c.Query("expand") == "1"

		base, err := svc.Resolver.RepoBase(kind, repoID)
		if err != nil {
			return writeError(c, err)
		}

		var sc sidecar.Map
		if expand {
			sc, err = svc.Sidecar.Load(base)
			if err != nil {
				return writeError(c, err)
			}
		}

		entries, err := buildTree(base, recursive, expand, sc)
		if err != nil {
			return writeError(c, err)
		}
		return writeJSON(c, 200, entries)
	}
}

func buildTree(base string, recursive, expand bool, sc sidecar.Map) ([]fiber.Map, error) {
	if recursive {
		result, err := siblings.Walk(base, base)
		if err != nil {
			return nil, err
		}
		entries := make([]fiber.Map, 0, len(result.Siblings))
		for _, f := range result.Siblings {
			entries = append(entries, fileTreeEntry(f.RFilename, f.Size, expand, sc))
		}
		return entries, nil
	}

	children, err := siblings.ImmediateChildren(base)
	if err != nil {
		return nil, err
	}
	entries := make([]fiber.Map, 0, len(children))
	for _, child := range children {
		if child.IsDir {
			entries = append(entries, fiber.Map{"type": "directory", "path": child.Name, "oid": nil})
			continue
		}
		entries = append(entries, fileTreeEntry(child.Name, child.Size, expand, sc))
	}
	return entries, nil
}

// fileTreeEntry reports diskSize unconditionally: size always comes from
// disk, never from the sidecar. expand only fills oid and lfs.
func fileTreeEntry(rel string, diskSize int64, expand bool, sc sidecar.Map) fiber.Map {
	entry := fiber.Map{"type": "file", "path": rel, "size": diskSize, "oid": nil}
	if !expand {
		return entry
	}
	sidecarEntry, ok := sc.Lookup(rel)
	if !ok {
		return entry
	}
	if sidecarEntry.OID != "" {
		entry["oid"] = sidecarEntry.OID
	}
	if sidecarEntry.LFS != nil {
		entry["lfs"] = fiber.Map{"oid": sidecarEntry.LFS.OID, "size": sidecarEntry.LFS.Size}
	}
	return entry
}
