package model

import "time"

const (
	MaxSlotsPerDay     = 6
	BookingWindowWeeks = 2
	SlotTime           = "8:30 AM - 9:45 AM"
)

type Booking struct {
	ID         string    `json:"id" bson:"_id"`
	MemberID   string    `json:"memberId" bson:"member_id"`
	MemberName string    `json:"memberName" bson:"member_name"` // копия имени на момент записи
	Date       string    `json:"date" bson:"date"`              // YYYY-MM-DD, только будни
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}
