package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemberSeed начальные данные участника
type MemberSeed struct {
	Name        string
	Initials    string
	AvatarColor string
}

// DefaultMembers состав группы по умолчанию
var DefaultMembers = []MemberSeed{
	{Name: "Ashish", Initials: "A", AvatarColor: "green"},
	{Name: "Gagan", Initials: "G", AvatarColor: "blue"},
	{Name: "He-man", Initials: "H", AvatarColor: "purple"},
	{Name: "Kaushal", Initials: "K", AvatarColor: "yellow"},
	{Name: "Main hoon na", Initials: "MH", AvatarColor: "pink"},
	{Name: "Aswini", Initials: "AS", AvatarColor: "indigo"},
	{Name: "Rahul", Initials: "R", AvatarColor: "orange"},
	{Name: "RK", Initials: "RK", AvatarColor: "red"},
	{Name: "Anjali", Initials: "AN", AvatarColor: "teal"},
	{Name: "Kumar", Initials: "KU", AvatarColor: "cyan"},
}

type MemberService struct {
	members repository.MemberStore
	logger  *zap.Logger
}

func NewMemberService(members repository.MemberStore, logger *zap.Logger) *MemberService {
	return &MemberService{
		members: members,
		logger:  logger,
	}
}

// Seed заполняет пустой справочник участников
func (s *MemberService) Seed(ctx context.Context, seeds []MemberSeed) error {
	base := time.Now().UTC()
	members := make([]*model.Member, 0, len(seeds))
	for i, seed := range seeds {
		members = append(members, &model.Member{
			ID:          uuid.NewString(),
			Name:        seed.Name,
			Initials:    seed.Initials,
			AvatarColor: seed.AvatarColor,
			// порядок сидов сохраняется через время создания
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		})
	}

	n, err := s.members.SeedMembers(ctx, members)
	if err != nil {
		return err
	}

	if n > 0 {
		s.logger.Info("Members seeded", zap.Int("count", n))
	}
	return nil
}

// List возвращает всех участников
func (s *MemberService) List(ctx context.Context) ([]*model.Member, error) {
	return s.members.ListMembers(ctx)
}

// Get возвращает участника или nil
func (s *MemberService) Get(ctx context.Context, id string) (*model.Member, error) {
	return s.members.GetMember(ctx, id)
}
