package model

import "time"

type Loan struct {
	ID            int64      `json:"id" db:"id"`
	BorrowerName  string     `json:"borrowerName" db:"borrower_name"`
	BorrowerPhone string     `json:"borrowerPhone" db:"borrower_phone"`
	LoanDate      time.Time  `json:"loanDate" db:"loan_date"`
	DueDate       time.Time  `json:"dueDate" db:"due_date"`
	Status        Status     `json:"status" db:"status"`
	UserName      string     `json:"userName" db:"username"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
	Items         []LineItem `json:"items" db:"-"`
}

type LineItem struct {
	ID       int64  `json:"id" db:"id"`
	LoanID   int64  `json:"loanId" db:"loan_id"`
	ItemID   *int64 `json:"itemId" db:"item_id"`
	Quantity int    `json:"quantity" db:"quantity"`
	ItemName string `json:"itemName,omitempty" db:"item_name"`
	ItemCode string `json:"itemCode,omitempty" db:"item_code"`
}

// LineRequest asks for Quantity units of ItemID.
type LineRequest struct {
	ItemID   int64 `json:"itemId" validate:"required,gte=1"`
	Quantity int   `json:"quantity" validate:"required,gte=1"`
}

type CreateLoanRequest struct {
	BorrowerName  string        `json:"borrowerName" validate:"required,max=255"`
	BorrowerPhone string        `json:"borrowerPhone" validate:"required,max=32"`
	// zero dates are rejected by the service
	LoanDate      Date          `json:"loanDate"`
	DueDate       Date          `json:"dueDate"`
	Items         []LineRequest `json:"items" validate:"required,min=1,dive"`
	UserName      string        `json:"-"`
}

type TransitionRequest struct {
	Status   Status `json:"status" validate:"required,oneof=PENDING ACTIVE COMPLETED OVERDUE REJECTED"`
	WriteOff bool   `json:"writeOff"`
	UserName string `json:"-"`
}

type LoanFilter struct {
	Status Status
	Search string
	Page   int
	Size   int
}

type ListLoans struct {
	Paging
	Items []Loan `json:"items"`
}

type ScanResult struct {
	At       time.Time `json:"at"`
	Promoted []int64   `json:"promoted"`
	Skipped  int       `json:"skipped"`
}
