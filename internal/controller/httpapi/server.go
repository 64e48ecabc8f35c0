// Package httpapi JSON API на fiber поверх сервисов записи.
package httpapi

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Services зависимости обработчиков
type Services struct {
	Members       *service.MemberService
	Bookings      *service.BookingService
	Activities    *service.ActivityService
	Comments      *service.CommentService
	Participation *service.ParticipationService
	Window        *service.WindowService
}

// Options настройки сервера
type Options struct {
	CORSOrigins  string
	StoreTimeout time.Duration
	Location     *time.Location
	Now          func() time.Time
}

type Server struct {
	app      *fiber.App
	services Services
	store    repository.Store
	hub      *Hub
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewServer собирает fiber приложение со всеми маршрутами
func NewServer(services Services, store repository.Store, hub *Hub, opts Options, logger *zap.Logger) *Server {
	s := &Server{
		services: services,
		store:    store,
		hub:      hub,
		logger:   logger,
		loc:      opts.Location,
		now:      opts.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "slot_board",
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})

	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	s.app.Use(recover.New())
	s.app.Use(requestLogger(logger))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	s.routes(opts.StoreTimeout)
	return s
}

func (s *Server) routes(timeout time.Duration) {
	api := s.app.Group("/api")

	// живая лента до таймаута хранилища, соединение долгое
	if s.hub != nil {
		api.Get("/activities/ws", s.hub.Upgrade, s.hub.Handler())
	}

	api.Use(storeTimeout(timeout))

	api.Get("/health", s.health)

	api.Get("/members", s.listMembers)
	api.Get("/members/:id/bookings", s.listMemberBookings)

	api.Get("/bookings", s.listBookings)
	api.Get("/bookings/:date", s.listBookingsByDate)
	api.Post("/bookings", s.bookSlot)
	api.Delete("/bookings/:memberId/:date", s.cancelBooking)

	api.Get("/activities", s.listActivities)
	api.Get("/activities/:date", s.listActivitiesByDate)

	api.Get("/comments", s.listComments)
	api.Get("/comments/:date", s.listCommentsByDate)
	api.Post("/comments", s.addComment)

	api.Get("/window", s.window)
	api.Get("/window.png", s.windowImage)
	api.Get("/participation", s.participation)
}

// App возвращает fiber приложение, используется в тестах
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen запускает сервер, блокирует до остановки
func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown закрывает websocket клиентов и останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) today() time.Time {
	return s.now().In(s.loc)
}
