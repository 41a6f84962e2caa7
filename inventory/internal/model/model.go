package model

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
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

type Count struct {
	Key   string `json:"key" db:"key"`
	Count int    `json:"count" db:"count"`
}

type InventoryStats struct {
	TotalItems    int     `json:"totalItems" db:"total_items"`
	TotalOnHand   int     `json:"totalOnHand" db:"total_on_hand"`
	TotalReserved int     `json:"totalReserved" db:"total_reserved"`
	ByCondition   []Count `json:"byCondition" db:"-"`
	ByCategory    []Count `json:"byCategory" db:"-"`
}

type LoanStats struct {
	TotalLoans   int     `json:"totalLoans" db:"total_loans"`
	OverdueCount int     `json:"overdueCount" db:"overdue_count"`
	ByStatus     []Count `json:"byStatus" db:"-"`
}

type Stats struct {
	Inventory InventoryStats `json:"inventory"`
	Loans     LoanStats      `json:"loans"`
}
