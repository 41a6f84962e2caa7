package model

import "time"

type Condition string

const (
	ConditionGood            Condition = "GOOD"
	ConditionLightlyDamaged  Condition = "LIGHTLY_DAMAGED"
	ConditionSeverelyDamaged Condition = "SEVERELY_DAMAGED"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionLightlyDamaged, ConditionSeverelyDamaged:
		return true
	}
	return false
}

type Item struct {
	ID               int64      `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	Code             string     `json:"code" db:"code"`
	QuantityOnHand   int        `json:"quantityOnHand" db:"quantity_on_hand"`
	QuantityReserved int        `json:"quantityReserved" db:"quantity_reserved"`
	Available        int        `json:"available" db:"available"`
	Category         string     `json:"category" db:"category"`
	Condition        Condition  `json:"condition" db:"condition"`
	Location         string     `json:"location" db:"location"`
	AcquisitionDate  *time.Time `json:"acquisitionDate,omitempty" db:"acquisition_date"`
	UserName         string     `json:"userName" db:"username"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

type ItemRequest struct {
	Name            string    `json:"name" validate:"required,max=255"`
	Code            string    `json:"code" validate:"required,max=255"`
	QuantityOnHand  int       `json:"quantityOnHand" validate:"gte=0"`
	Category        string    `json:"category" validate:"required,max=100"`
	Condition       Condition `json:"condition" validate:"omitempty,oneof=GOOD LIGHTLY_DAMAGED SEVERELY_DAMAGED"`
	Location        string    `json:"location" validate:"max=255"`
	AcquisitionDate *Date     `json:"acquisitionDate"`
	UserName        string    `json:"-"`
}

type ItemFilter struct {
	Category  string
	Condition Condition
	Search    string
	Page      int
	Size      int
}

type ListItems struct {
	Paging
	Items []Item `json:"items"`
}
