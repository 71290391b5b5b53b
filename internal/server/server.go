// Package server exposes the journey mutation API over HTTP.
package server

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

// Server serializes requests onto a single orchestrator. Each request
// switches to the map named by its path, so the response always reflects
// what is stored.
type Server struct {
	mu   sync.Mutex
	orch *journey.Orchestrator
	log  *zap.Logger
	app  *fiber.App
}

func New(orch *journey.Orchestrator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{orch: orch, log: log}
	s.app = fiber.New(fiber.Config{AppName: "journeymap"})
	s.app.Use(recover.New())
	s.app.Use(s.accessLog)
	s.routes()
	return s
}

// App returns the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) routes() {
	g := s.app.Group("/journeys/:brand/:campaign")

	// ── Map ───────────────────────────────────────────────────────────
	g.Get("/", s.withMap(func(c fiber.Ctx) error {
		return c.JSON(s.orch.Snapshot())
	}))

	g.Put("/title", s.withMap(func(c fiber.Ctx) error {
		var body struct {
			Title string `json:"title"`
		}
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if err := s.orch.RenameTitle(body.Title); err != nil {
			return s.fail(c, err)
		}
		return c.JSON(s.orch.Snapshot())
	}))

	g.Post("/clear", s.withMap(func(c fiber.Ctx) error {
		if err := s.orch.Clear(); err != nil {
			return s.fail(c, err)
		}
		return c.JSON(s.orch.Snapshot())
	}))

	// ── Nodes ─────────────────────────────────────────────────────────
	g.Post("/nodes", s.withMap(func(c fiber.Ctx) error {
		pointer, err := pointerFromQuery(c)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		n, ok, err := s.orch.Drop(string(c.Body()), pointer)
		if errors.Is(err, journey.ErrMalformedPayload) {
			return c.Status(400).JSON(fiber.Map{"error": "payload is not a content record"})
		}
		if err != nil {
			return s.fail(c, err)
		}
		if !ok {
			return c.SendStatus(204)
		}
		return c.Status(201).JSON(n)
	}))

	g.Patch("/nodes/:id", s.withMap(func(c fiber.Ctx) error {
		var pos geometry.Point
		if err := c.Bind().JSON(&pos); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		err := s.orch.MoveNode(c.Params("id"), pos)
		s.orch.EndGesture()
		if err != nil {
			return s.fail(c, err)
		}
		n, _ := s.orch.Node(c.Params("id"))
		return c.JSON(n)
	}))

	g.Delete("/nodes/:id", s.withMap(func(c fiber.Ctx) error {
		if err := s.orch.RemoveNode(c.Params("id")); err != nil {
			return s.fail(c, err)
		}
		return c.SendStatus(204)
	}))

	// ── Connections ───────────────────────────────────────────────────
	g.Post("/connections", s.withMap(func(c fiber.Ctx) error {
		var body struct {
			From string `json:"from"`
			To   string `json:"to"`
		}
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		conn, err := s.orch.Connect(body.From, body.To)
		if err != nil {
			return s.fail(c, err)
		}
		return c.Status(201).JSON(conn)
	}))

	g.Delete("/connections/:id", s.withMap(func(c fiber.Ctx) error {
		if err := s.orch.RemoveConnection(c.Params("id")); err != nil {
			return s.fail(c, err)
		}
		return c.SendStatus(204)
	}))
}

// withMap holds the lock for the whole request and switches the
// orchestrator to the brand and campaign in the path.
func (s *Server) withMap(h fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		brand := c.Params("brand")
		campaign := c.Params("campaign")
		if brand == "" {
			return c.Status(400).JSON(fiber.Map{"error": "brand is required"})
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.orch.Switch(brand, campaign); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "could not load journey"})
		}
		return h(c)
	}
}

// fail maps orchestrator errors onto status codes.
func (s *Server) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, journey.ErrNodeNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "node not found"})
	case errors.Is(err, journey.ErrConnectionNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "connection not found"})
	case errors.Is(err, journey.ErrConnectionExists):
		return c.Status(409).JSON(fiber.Map{"error": "these nodes are already connected"})
	case errors.Is(err, journey.ErrSelfConnection):
		return c.Status(422).JSON(fiber.Map{"error": "a node cannot connect to itself"})
	}
	s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) accessLog(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)))
	return err
}

func pointerFromQuery(c fiber.Ctx) (geometry.Point, error) {
	var p geometry.Point
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"x", &p.X}, {"y", &p.Y}} {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, errors.New("query " + f.name + " must be a number")
		}
		*f.dst = v
	}
	return p, nil
}
