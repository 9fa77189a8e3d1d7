package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Error    string `json:"error" example:"DB"`
	Detalle  string `json:"detalle,omitempty" example:"Unexpected character..."`
	SQLState string `json:"sqlstate,omitempty" example:"23505"`
	Code     int    `json:"code,omitempty" example:"0"`
	Message  string `json:"message,omitempty" example:"duplicate key value violates unique constraint"`
}
