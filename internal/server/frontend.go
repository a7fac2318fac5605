package server

import (
	"os"
	"path/filepath"

	"shelfware/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// setupFrontend serves a built SPA bundle from STATIC_DIR. Unknown GET paths fall back to
// index.html so client-side routes survive a reload.
func (s *Server) setupFrontend(app *fiber.App) {
	dir := s.config.StaticDir
	if dir == "" {
		app.Get("/", s.Root)
		return
	}

	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		middleware.Logger.Warn("STATIC_DIR has no index.html, serving API only", "dir", dir)
		app.Get("/", s.Root)
		return
	}

	app.Static("/", dir)
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}
