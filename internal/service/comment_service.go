package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/slot_board/internal/calendar"
	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxCommentLength предел длины комментария в символах
const MaxCommentLength = 1000

// AddCommentRequest запрос на комментарий к дате
type AddCommentRequest struct {
	MemberID   string
	MemberName string
	Date       string
	Comment    string
}

type CommentService struct {
	comments repository.CommentStore
	members  repository.MemberStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewCommentService(comments repository.CommentStore, members repository.MemberStore, logger *zap.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		members:  members,
		logger:   logger,
		now:      time.Now,
	}
}

// Add добавляет комментарий к любой дате, включая выходные
func (s *CommentService) Add(ctx context.Context, req AddCommentRequest) (*model.Comment, error) {
	if req.MemberID == "" {
		return nil, model.Validationf("memberId is required")
	}
	if _, err := calendar.ParseDate(req.Date); err != nil {
		return nil, model.Validationf("Invalid date %q, expected YYYY-MM-DD", req.Date)
	}

	text := strings.TrimSpace(req.Comment)
	if text == "" {
		return nil, model.Validationf("Comment cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, model.Validationf("Comment must be at most %d characters", MaxCommentLength)
	}

	memberName := req.MemberName
	if memberName == "" {
		member, err := s.members.GetMember(ctx, req.MemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, model.Validationf("Unknown member %q", req.MemberID)
		}
		memberName = member.Name
	}

	comment := &model.Comment{
		ID:         uuid.NewString(),
		MemberID:   req.MemberID,
		MemberName: memberName,
		Date:       req.Date,
		Comment:    text,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("Comment added",
		zap.String("comment_id", comment.ID),
		zap.String("member_id", comment.MemberID),
		zap.String("date", comment.Date),
	)

	return comment, nil
}

func (s *CommentService) List(ctx context.Context) ([]*model.Comment, error) {
	return s.comments.ListComments(ctx)
}

func (s *CommentService) ListByDate(ctx context.Context, date string) ([]*model.Comment, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return nil, model.Validationf("Invalid date %q, expected YYYY-MM-DD", date)
	}
	return s.comments.ListCommentsByDate(ctx, date)
}
