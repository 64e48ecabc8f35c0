package model

import "time"

type ActivityAction string

const (
	ActivityActionBooked    ActivityAction = "booked a slot for"
	ActivityActionCancelled ActivityAction = "cancelled a slot for"
)

// Activity запись журнала о записи или отмене. Никогда не изменяется и не удаляется.
type Activity struct {
	ID         string         `json:"id" bson:"_id"`
	MemberID   string         `json:"memberId" bson:"member_id"`
	MemberName string         `json:"memberName" bson:"member_name"`
	Action     ActivityAction `json:"action" bson:"action"`
	Date       string         `json:"date" bson:"date"`
	DeviceInfo string         `json:"deviceInfo" bson:"device_info"`
	CreatedAt  time.Time      `json:"createdAt" bson:"created_at"`
}
