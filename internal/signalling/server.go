package signalling

import (
	"strings"
	"sync"
	"time"

	"github.com/cribwatch/relay/internal/api"
	"github.com/cribwatch/relay/internal/config"
	"github.com/cribwatch/relay/internal/domain"
	"github.com/cribwatch/relay/internal/repository/memory"
	"github.com/cribwatch/relay/internal/service"
	"github.com/cribwatch/relay/internal/sockets"
	"github.com/cribwatch/relay/internal/utils"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the room registry, presence tracker, relay, broadcaster and
// lifecycle coordinator behind one HTTP/WebSocket surface.
type Server struct {
	app    *fiber.App
	config *config.Manager

	pool     *sockets.SocketPool
	rooms    *service.RoomService
	presence *service.PresenceService

	connectionHandler *ConnectionHandler

	sweepMu          sync.Mutex
	sweeper          utils.IntervalTimer
	sweepIntervalSec int

	startedAt time.Time
}

func NewServer(cfg *config.Manager, app *fiber.App) *Server {
	conf := cfg.Get()

	pool := sockets.NewSocketPool()
	sender := NewWebSocketEventSender(pool)

	roomRepo := memory.NewRoomRepository()
	presenceRepo := memory.NewPresenceRepository()

	locks := service.NewRoomLocks()
	rooms := service.NewRoomService(roomRepo, locks, conf.Rooms.CodeLength)
	presence := service.NewPresenceService(presenceRepo)
	broadcaster := service.NewBroadcastService(roomRepo, sender)
	relay := service.NewRelayService(presence, sender)
	lifecycle := service.NewLifecycleService(roomRepo, presence, broadcaster, locks)

	sessionHandler := NewSessionHandler(
		pool,
		conf.Rooms.OutboundQueueSize,
		time.Duration(conf.Server.PingIntervalSec)*time.Second,
		conf.Rooms.MessageRatePerSec,
		conf.Rooms.MessageBurst,
	)

	server := &Server{
		app:               app,
		config:            cfg,
		pool:              pool,
		rooms:             rooms,
		presence:          presence,
		connectionHandler: NewConnectionHandler(cfg, lifecycle, relay, sessionHandler),
		startedAt:         time.Now(),
	}

	server.armSweeper(conf.Rooms.SweepIntervalSec)
	cfg.SetUpdateCallback(func(c *config.AppConfig) {
		server.armSweeper(c.Rooms.SweepIntervalSec)
	})

	return server
}

func (s *Server) Close() {
	s.sweepMu.Lock()
	if s.sweeper != nil {
		s.sweeper.Stop()
		s.sweeper = nil
	}
	s.sweepMu.Unlock()

	s.pool.Close()
}

// armSweeper (re)starts the expiry sweep ticker. Called at startup and again
// on config reload, so a changed sweepIntervalSec takes effect without a
// restart.
func (s *Server) armSweeper(intervalSec int) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	if s.sweeper != nil {
		if intervalSec == s.sweepIntervalSec {
			return
		}
		s.sweeper.Stop()
	}
	s.sweepIntervalSec = intervalSec
	s.sweeper = utils.SetIntervalTimer(time.Duration(intervalSec)*time.Second, s.sweep)
}

func (s *Server) sweep() {
	threshold := time.Duration(s.config.Get().Rooms.IdleThresholdSec) * time.Second
	s.rooms.SweepExpired(time.Now(), threshold)
}

// SetupRoutes mounts the HTTP API, the metrics endpoint, the admin API and
// the /ws endpoint. Call once, before Listen.
func (s *Server) SetupRoutes() {
	conf := s.config.Get()

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(conf.Server.AllowedOrigins, ","),
	}))

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(api.BannerResponse{
			Status:      "ok",
			Message:     "Cribwatch relay is running",
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			ActiveRooms: s.rooms.Count(),
		})
	})

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(api.HealthResponse{Status: "healthy"})
	})

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.setupRoomApi()
	s.setupAdminApi()
	s.setupWebSockets()
}

func (s *Server) setupRoomApi() {
	s.app.Get("/api/generate-room", func(c *fiber.Ctx) error {
		code, err := s.rooms.CreateRoom()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to create room")
		}
		return c.JSON(api.GenerateRoomResponse{RoomCode: code})
	})

	s.app.Get("/api/room/:code", func(c *fiber.Ctx) error {
		room, err := s.rooms.Lookup(c.Params("code"))
		if err != nil {
			return c.JSON(api.RoomInfoResponse{Exists: false})
		}
		return c.JSON(api.ToRoomInfo(room))
	})

	s.app.Get("/api/stats", func(c *fiber.Ctx) error {
		return c.JSON(api.StatsResponse{
			ActiveRooms:    s.rooms.Count(),
			ActiveCameras:  s.presence.CountByRole(domain.RoleCamera),
			ActiveMonitors: s.presence.CountByRole(domain.RoleMonitor),
			UptimeSeconds:  time.Since(s.startedAt).Seconds(),
		})
	})
}

func (s *Server) setupWebSockets() {
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	s.app.Get("/ws", websocket.New(s.connectionHandler.HandleSocket))
}
