package model

import "time"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Status string

const (
	StatusUnread Status = "UNREAD"
	StatusRead   Status = "READ"
)

type Notification struct {
	ID           int64     `json:"id" db:"id"`
	EventID      string    `json:"eventId" db:"event_id"`
	LoanID       int64     `json:"loanId" db:"loan_id"`
	EventType    string    `json:"eventType" db:"event_type"`
	LoanStatus   string    `json:"loanStatus" db:"loan_status"`
	BorrowerName string    `json:"borrowerName" db:"borrower_name"`
	Message      string    `json:"message" db:"message"`
	Status       Status    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Filter struct {
	LoanID int64
	Status Status
	Page   int
	Size   int
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListNotifications struct {
	Paging
	Items []Notification `json:"items"`
}

// Normalize clamps page and size to the supported range.
func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
