package dto

// PageRequest paginación para listados del catálogo.
type PageRequest struct {
	Page    int    `query:"page"`
	Size    int    `query:"size"`
	SortBy  string `query:"sortBy"`
	SortDir string `query:"sortDir"`
}

// DefaultPage aplica valores por defecto si vienen vacíos.
func (p *PageRequest) DefaultPage() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.SortBy == "" {
		p.SortBy = "id"
	}
	if p.SortDir != "desc" {
		p.SortDir = "asc"
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
