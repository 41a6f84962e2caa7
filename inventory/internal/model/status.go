package model

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusOverdue   Status = "OVERDUE"
	StatusRejected  Status = "REJECTED"
)

var Statuses = []Status{StatusPending, StatusActive, StatusCompleted, StatusOverdue, StatusRejected}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal statuses have no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// HoldsReservation reports whether line items of a loan in s keep stock reserved.
func (s Status) HoldsReservation() bool {
	return s == StatusPending || s == StatusActive || s == StatusOverdue
}

var transitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusRejected},
	StatusActive:  {StatusCompleted, StatusOverdue},
	StatusOverdue: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StockAction is applied to every line item of a loan inside the status change.
type StockAction uint8

const (
	StockNone StockAction = iota
	StockRelease
	StockConsume
)

func (a StockAction) String() string {
	switch a {
	case StockRelease:
		return "release"
	case StockConsume:
		return "consume"
	}
	return "none"
}

// StockActionFor returns what entering target does to reserved stock.
func StockActionFor(target Status, writeOff bool) StockAction {
	switch target {
	case StatusCompleted:
		if writeOff {
			return StockConsume
		}
		return StockRelease
	case StatusRejected:
		return StockRelease
	}
	return StockNone
}
