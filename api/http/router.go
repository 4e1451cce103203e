package http

import (
	"io/fs"
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/artem13815/careerdesk/api/http/handlers"
)

// Pages maps page routes to files of the embedded web root.
var Pages = map[string]string{
	"/resume-analysis":     "resume-analysis.html",
	"/interview-assistant": "interview-assistant.html",
	"/salary-intelligence": "salary-intelligence.html",
}

// Handlers groups everything Register mounts.
type Handlers struct {
	Health  *handlers.HealthHandler
	Extract *handlers.ExtractHandler
	Desk    *handlers.DeskHandler
	// Session guards the desk routes except init.
	Session fiber.Handler
	// Web is the static page root; nil skips page routes.
	Web fs.FS
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers) {
	app.Post("/extract-resume-text", h.Extract.Extract)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	dg := v1.Group("/desk")
	dg.Post("/init", h.Desk.Init)

	mw := h.Session
	dg.Get("", mw, h.Desk.State)
	dg.Post("/file", mw, h.Desk.SelectFile)
	dg.Post("/drop", mw, h.Desk.DropFiles)
	dg.Put("/drag", mw, h.Desk.Drag)
	dg.Put("/manual", mw, h.Desk.SetManual)
	dg.Post("/manual", mw, h.Desk.SaveManual)
	dg.Get("/resume", mw, h.Desk.Resume)
	dg.Delete("/resume", mw, h.Desk.Clear)
	dg.Post("/navigate", mw, h.Desk.Navigate)
	dg.Get("/navigate/:feature", mw, h.Desk.NavigateRedirect)

	if h.Web == nil {
		return
	}
	root := nethttp.FS(h.Web)
	for route, file := range Pages {
		app.Get(route, func(c *fiber.Ctx) error {
			return filesystem.SendFile(c, root, file)
		})
	}
	app.Use("/", filesystem.New(filesystem.Config{
		Root:  root,
		Index: "index.html",
	}))
}
