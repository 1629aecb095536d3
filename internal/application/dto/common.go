package dto

// PageRequest paginación para listados (estilo page/per_page del API).
type PageRequest struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page"`
}

// DefaultPage aplica valores por defecto si Page/PerPage son cero o negativos.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 50
	}
	if p.PerPage > 200 {
		p.PerPage = 200
	}
}

// PageMeta metadatos de página en respuestas.
type PageMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// NewPageMeta calcula los metadatos a partir del total de filas.
func NewPageMeta(page, perPage, total int) PageMeta {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return PageMeta{Page: page, PerPage: perPage, Total: total, Pages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
