package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryDrink   Category = "drink"
	CategoryDessert Category = "dessert"
	CategorySnack   Category = "snack"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDrink, CategoryDessert, CategorySnack:
		return true
	}
	return false
}

type MenuItem struct {
	ID          string
	Name        string
	Category    Category
	Description string
	Price       decimal.Decimal
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
