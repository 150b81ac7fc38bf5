package apperrors

import (
	"log"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err *AppError) {
	// Логирование
	if err.HTTPCode >= 500 {
		log.Printf("Server error: %v", err)
	}

	// Отправка ответа
	c.JSON(err.HTTPCode, ErrorResponse{Error: err})
}

// HandleError - обработка ошибок для Gin контекста
func HandleError(c *gin.Context, err *AppError) {
	handler := &GinErrorHandler{Debug: true} // В проде установить false
	handler.HandleGinError(c, err)
}
