package routes

import (
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/localhub/hfhub/internal/apierr"
	"github.com/localhub/hfhub/internal/logging"
	"github.com/localhub/hfhub/internal/modelhub"
	"github.com/localhub/hfhub/internal/pathresolver"
	"github.com/localhub/hfhub/internal/rangeio"
	"github.com/localhub/hfhub/internal/server"
)

// streamBufferSize is the chunk size used when copying a resolved file into
// the response body.
const streamBufferSize = 256 * 1024

// RegisterResolve registers GET and HEAD for
// /{org}/{name}/resolve/{revision}/{filename...}.
func RegisterResolve(app *fiber.App, svc *modelhub.Service, logger *logrus.Logger, kind pathresolver.RepoKind, prefix string) {
	handler := resolveHandler(svc, logger, kind)
	app.Get(prefix+"/:org/:name/resolve/:revision/*", handler)
	app.Head(prefix+"/:org/:name/resolve/:revision/*", handler)
}

func resolveHandler(svc *modelhub.Service, logger *logrus.Logger, kind pathresolver.RepoKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		started := time.Now()
		org := c.Params("org")
		name := c.Params("name")
		repoID := org + "/" + name
		revision := c.Params("revision")
		filename := c.Params("*")

		c.Set("x-repo-commit", revision)
		c.Set("x-revision", revision)

		status, err := serveResolve(c, svc, kind, repoID, filename)
		logResolve(logger, c, kind, repoID, revision, status, started, err)
		if err != nil {
			return writeError(c, err)
		}
		return nil
	}
}

func serveResolve(c fiber.Ctx, svc *modelhub.Service, kind pathresolver.RepoKind, repoID, filename string) (int, error) {
	path, err := svc.Resolver.File(kind, repoID, filename)
	if err != nil {
		return 0, err
	}

	base, err := svc.Resolver.RepoBase(kind, repoID)
	if err != nil {
		return 0, err
	}
	sc, err := svc.Sidecar.Load(base)
	if err != nil {
		return 0, err
	}
	entry, ok := sc.Lookup(filename)
	if !ok {
		return 0, apierr.EtagUnavailablef("no sidecar entry for %s", filename)
	}
	etag, ok := entry.ETag()
	if !ok {
		return 0, apierr.EtagUnavailablef("sidecar entry for %s has no oid", filename)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, apierr.NotFoundf("file %s not found", filename)
	}
	size := info.Size()
	if entry.Size > 0 {
		size = entry.Size
	}

	c.Set("ETag", `"`+etag+`"`)
	c.Set("Accept-Ranges", "bytes")
	c.Response().Header.SetContentType("application/octet-stream")
	if entry.LFS != nil {
		c.Set("x-lfs-size", strconv.FormatInt(entry.LFS.Size, 10))
	}

	result := rangeio.Parse(c.Get("Range"), size)
	if result.Outcome == rangeio.Unsatisfiable {
		c.Set("Content-Range", "bytes */"+strconv.FormatInt(size, 10))
		c.Status(fiber.StatusRequestedRangeNotSatisfiable)
		return fiber.StatusRequestedRangeNotSatisfiable, nil
	}

	status := fiber.StatusOK
	if result.Outcome == rangeio.Partial {
		status = fiber.StatusPartialContent
		c.Set("Content-Range", "bytes "+strconv.FormatInt(result.Start, 10)+"-"+strconv.FormatInt(result.End, 10)+"/"+strconv.FormatInt(size, 10))
	}
	c.Response().Header.SetContentLength(int(result.ContentLength()))
	c.Status(status)

	if c.Method() == http.MethodHead {
		return status, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return status, apierr.IOf("open %s: %v", filename, err)
	}
	defer f.Close()

	if result.Outcome == rangeio.Partial {
		if _, err := f.Seek(result.Start, io.SeekStart); err != nil {
			return status, apierr.IOf("seek %s: %v", filename, err)
		}
	}

	buf := make([]byte, streamBufferSize)
	reader := io.Reader(f)
	if result.Outcome == rangeio.Partial {
		reader = io.LimitReader(f, result.ContentLength())
	}
	if err := streamChunked(c, c.Response().BodyWriter(), reader, buf); err != nil {
		return status, apierr.IOf("stream %s: %v", filename, err)
	}
	return status, nil
}

// streamChunked copies src to dst in streamBufferSize chunks, checking the
// request context for cancellation between chunks rather than relying on a
// single blocking io.CopyBuffer that can't be interrupted mid-transfer.
func streamChunked(c fiber.Ctx, dst io.Writer, src io.Reader, buf []byte) error {
	for {
		select {
		case <-c.Context().Done():
			return c.Context().Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

func logResolve(logger *logrus.Logger, c fiber.Ctx, kind pathresolver.RepoKind, repoID, revision string, status int, started time.Time, err error) {
	if apiErr, ok := err.(*apierr.Error); ok {
		status = apiErr.Status
	}
	fields := logging.RequestFields(string(kind), repoID, revision, c.Method(), status, false, float64(time.Since(started).Microseconds())/1000)
	fields["action"] = "resolve"
	if reqID := server.RequestID(c); reqID != "" {
		fields["request_id"] = reqID
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.WithFields(fields).Warn("resolve_failed")
		return
	}
	logger.WithFields(fields).Info("resolve_complete")
}
