package domain

import "time"

// Feedback is an append-only note one user leaves for another.
type Feedback struct {
	ID           string            `json:"id"`
	ToUserID     string            `json:"toUserId"`
	FromUserID   string            `json:"fromUserId"`
	FromUserName string            `json:"fromUserName"`
	Content      string            `json:"content"`
	CreatedAt    time.Time         `json:"createdAt"`
	LegacyID     *string           `json:"legacyId"`
	Comments     []FeedbackComment `json:"comments"`
}

// FeedbackComment is an append-only reply attached to a feedback item.
type FeedbackComment struct {
	ID           string    `json:"id"`
	FeedbackID   string    `json:"feedbackId"`
	FromUserID   string    `json:"fromUserId"`
	FromUserName string    `json:"fromUserName"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	LegacyID     *string   `json:"legacyId"`
}
