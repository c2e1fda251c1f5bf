package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// ======================================================
// BUSINESS → HTTP
// ======================================================

var businessStatus = map[string]int{
	"invalid_config":        http.StatusBadRequest,
	"invalid_input":         http.StatusBadRequest,
	"too_soon":              http.StatusBadRequest,
	"outside_working_hours": http.StatusBadRequest,
	"appointment_not_found": http.StatusNotFound,
	"user_not_found":        http.StatusNotFound,
	"invalid_state":         http.StatusConflict,
	"email_already_exists":  http.StatusConflict,
	"invalid_credentials":   http.StatusUnauthorized,
}

var businessMessage = map[string]string{
	"invalid_config":        "Configuração de horário inválida.",
	"invalid_input":         "Data ou hora inválida.",
	"too_soon":              "Horário inválido.",
	"outside_working_hours": "Fora do horário de atendimento.",
	"appointment_not_found": "Agendamento não encontrado.",
	"user_not_found":        "Usuário não encontrado.",
	"invalid_state":         "Agendamento não pode ser alterado.",
	"email_already_exists":  "E-mail já cadastrado.",
	"invalid_credentials":   "Credenciais inválidas.",
}

// FromError escreve a resposta para qualquer erro vindo de um use case.
// Erros que não são de negócio viram 500 com o código de fallback.
func FromError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	code, ok := Code(err)
	if !ok {
		Internal(c, fallbackCode, fallbackMessage)
		return
	}

	status, known := businessStatus[code]
	if !known {
		Write(c, http.StatusBadRequest, code, "Requisição inválida.")
		return
	}

	Write(c, status, code, businessMessage[code])
}
