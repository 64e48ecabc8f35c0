package model

import "time"

type Member struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Initials    string    `json:"initials" bson:"initials"`
	AvatarColor string    `json:"avatarColor" bson:"avatar_color"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// MemberStatus уровень участия за месяц
type MemberStatus string

const (
	MemberStatusHigh   MemberStatus = "High"
	MemberStatusMedium MemberStatus = "Medium"
	MemberStatusLow    MemberStatus = "Low"
)

// MemberStats статистика участника за месяц
type MemberStats struct {
	Member            *Member      `json:"member"`
	TotalBookings     int          `json:"totalBookings"`
	ParticipationRate int          `json:"participationRate"` // проценты, 0..100+
	Status            MemberStatus `json:"status"`
}
