package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo (solo lectura para el cliente).
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"` // no negativo
	Available   bool            `json:"available"`
	MenuID      int64           `json:"menuId,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
}

// ProductPage página de productos tal como la devuelve el catálogo.
type ProductPage struct {
	Content       []Product `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
}
