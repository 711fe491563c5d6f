package dto

// ErrorResponse cuerpo de error HTTP. Detail lleva el mensaje del motor en errores de almacenamiento.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Mensajes fijos de las respuestas de escritura.
const (
	MsgCreated = "Registro creado con éxito"
	MsgUpdated = "Registro actualizado"
	MsgDeleted = "Registro eliminado"
)

// MessageResponse confirmación de escritura. ID en altas simples, IDs en altas por lote.
type MessageResponse struct {
	Mensaje string  `json:"mensaje"`
	ID      *int64  `json:"id,omitempty"`
	IDs     []int64 `json:"ids,omitempty"`
}

// Created respuesta de alta simple.
func Created(id int64) MessageResponse {
	return MessageResponse{Mensaje: MsgCreated, ID: &id}
}

// CreatedBatch respuesta de alta por lote.
func CreatedBatch(ids []int64) MessageResponse {
	return MessageResponse{Mensaje: MsgCreated, IDs: ids}
}

// Message respuesta con solo el mensaje.
func Message(msg string) MessageResponse {
	return MessageResponse{Mensaje: msg}
}

// StatusResponse respuesta del endpoint raíz de la API.
type StatusResponse struct {
	Status int    `json:"status"`
	Info   string `json:"info"`
}
