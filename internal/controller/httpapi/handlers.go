package httpapi

import (
	"strconv"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/render"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (s *Server) health(c *fiber.Ctx) error {
	if err := s.store.Ping(c.UserContext()); err != nil {
		s.logger.Error("Health check failed", zap.String("storage", s.store.Name()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "unavailable",
			"storage": s.store.Name(),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"storage": s.store.Name(),
	})
}

func (s *Server) listMembers(c *fiber.Ctx) error {
	members, err := s.services.Members.List(c.UserContext())
	if err != nil {
		return failed("Failed to fetch members", err)
	}
	return c.JSON(members)
}

func (s *Server) listMemberBookings(c *fiber.Ctx) error {
	bookings, err := s.services.Bookings.ListBookingsByMember(c.UserContext(), c.Params("id"))
	if err != nil {
		return failed("Failed to fetch bookings for member", err)
	}
	return c.JSON(bookings)
}

func (s *Server) listBookings(c *fiber.Ctx) error {
	bookings, err := s.services.Bookings.ListBookings(c.UserContext())
	if err != nil {
		return failed("Failed to fetch bookings", err)
	}
	return c.JSON(bookings)
}

func (s *Server) listBookingsByDate(c *fiber.Ctx) error {
	bookings, err := s.services.Bookings.ListBookingsByDate(c.UserContext(), c.Params("date"))
	if err != nil {
		return failed("Failed to fetch bookings for date", err)
	}
	return c.JSON(bookings)
}

func (s *Server) bookSlot(c *fiber.Ctx) error {
	var req bookSlotRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	booking, err := s.services.Bookings.BookSlot(c.UserContext(), service.BookRequest{
		MemberID:   req.MemberID,
		MemberName: req.MemberName,
		Date:       req.Date,
		UserAgent:  c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return failed("Failed to create booking", err)
	}
	return c.JSON(booking)
}

func (s *Server) cancelBooking(c *fiber.Ctx) error {
	_, err := s.services.Bookings.CancelBooking(c.UserContext(),
		c.Params("memberId"),
		c.Params("date"),
		c.Get(fiber.HeaderUserAgent),
	)
	if err != nil {
		return failed("Failed to cancel booking", err)
	}
	return c.JSON(fiber.Map{"message": "Booking cancelled successfully"})
}

func (s *Server) listActivities(c *fiber.Ctx) error {
	activities, err := s.services.Activities.List(c.UserContext())
	if err != nil {
		return failed("Failed to fetch activities", err)
	}
	return c.JSON(activities)
}

func (s *Server) listActivitiesByDate(c *fiber.Ctx) error {
	activities, err := s.services.Activities.ListByDate(c.UserContext(), c.Params("date"))
	if err != nil {
		return failed("Failed to fetch activities for date", err)
	}
	return c.JSON(activities)
}

func (s *Server) listComments(c *fiber.Ctx) error {
	comments, err := s.services.Comments.List(c.UserContext())
	if err != nil {
		return failed("Failed to fetch comments", err)
	}
	return c.JSON(comments)
}

func (s *Server) listCommentsByDate(c *fiber.Ctx) error {
	comments, err := s.services.Comments.ListByDate(c.UserContext(), c.Params("date"))
	if err != nil {
		return failed("Failed to fetch comments for date", err)
	}
	return c.JSON(comments)
}

func (s *Server) addComment(c *fiber.Ctx) error {
	var req addCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	comment, err := s.services.Comments.Add(c.UserContext(), service.AddCommentRequest{
		MemberID:   req.MemberID,
		MemberName: req.MemberName,
		Date:       req.Date,
		Comment:    req.Comment,
	})
	if err != nil {
		return failed("Failed to create comment", err)
	}
	return c.JSON(comment)
}

func (s *Server) window(c *fiber.Ctx) error {
	overview, err := s.services.Window.Overview(c.UserContext(), s.today())
	if err != nil {
		return failed("Failed to build booking window", err)
	}
	return c.JSON(overview)
}

func (s *Server) windowImage(c *fiber.Ctx) error {
	now := s.today()

	overview, err := s.services.Window.Overview(c.UserContext(), now)
	if err != nil {
		return failed("Failed to build booking window", err)
	}

	data, err := render.WindowImage(overview, now)
	if err != nil {
		return failed("Failed to render booking window", err)
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("png")
	return c.Send(data)
}

func (s *Server) participation(c *fiber.Ctx) error {
	now := s.today()

	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return err
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		return err
	}

	field, err := service.ParseSortField(c.Query("sort"))
	if err != nil {
		return err
	}
	order, err := service.ParseSortOrder(c.Query("order"))
	if err != nil {
		return err
	}

	stats, err := s.services.Participation.Monthly(c.UserContext(), year, time.Month(month), field, order)
	if err != nil {
		return failed("Failed to compute participation", err)
	}
	return c.JSON(stats)
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.Validationf("%s must be a number", key)
	}
	return v, nil
}
