package dto

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PageResponse eco de paginación por límite/offset.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
