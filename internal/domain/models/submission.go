package models

import "time"

// SubmissionRecord is the audit entry written after every submission attempt.
type SubmissionRecord struct {
	RequestID   string    `bson:"request_id" json:"request_id"`
	SessionID   string    `bson:"session_id" json:"session_id"`
	Outcome     string    `bson:"outcome" json:"outcome"`
	StatusCode  int       `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Code        string    `bson:"code" json:"code"`
	Name        string    `bson:"name" json:"name"`
	CategoryID  string    `bson:"category_id" json:"category_id"`
	EmployeeID  string    `bson:"employee_id" json:"employee_id"`
	Coordinates string    `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Payload     string    `bson:"payload" json:"payload"`
	Detail      string    `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
