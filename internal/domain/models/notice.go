package models

import "time"

// NoticeLevel grades a user-visible notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message surfaced to the operator.
type Notice struct {
	Level     NoticeLevel `json:"level"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}
