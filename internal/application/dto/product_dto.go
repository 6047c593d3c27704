package dto

import "github.com/shopspring/decimal"

// ProductFilter filtros de búsqueda del catálogo; los campos nil/vacíos no se envían.
type ProductFilter struct {
	Name        string
	Description string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Available   *bool
	MenuID      int64
	Categories  []string
}
