package dto

// ImportResult resultado de una importación masiva. Success es false cuando
// hubo errores por fila, aunque las filas correctas sí quedaron guardadas.
type ImportResult struct {
	Success    bool     `json:"success"`
	Errors     []string `json:"errores,omitempty"`
	Advisories []string `json:"avisos"`
	Message    string   `json:"message,omitempty"`
}
