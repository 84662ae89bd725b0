package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Page    int `query:"page" validate:"min=1"`
	PerPage int `query:"perpage" validate:"min=1,max=100"`
}

// DefaultPage aplica valores por defecto si Page/PerPage son cero.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
}

// Offset desplazamiento SQL equivalente.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PaginationDTO envelope de paginación en respuestas de listados.
type PaginationDTO struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// NewPagination construye el envelope a partir de página, tamaño y total.
func NewPagination(page, perPage, total int) PaginationDTO {
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	from := (page-1)*perPage + 1
	to := page * perPage
	if to > total {
		to = total
	}
	if total == 0 {
		from = 0
		to = 0
	}
	return PaginationDTO{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
		From:        from,
		To:          to,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
