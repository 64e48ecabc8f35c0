package model

import "time"

type Comment struct {
	ID         string    `json:"id" bson:"_id"`
	MemberID   string    `json:"memberId" bson:"member_id"`
	MemberName string    `json:"memberName" bson:"member_name"`
	Date       string    `json:"date" bson:"date"`
	Comment    string    `json:"comment" bson:"comment"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}
