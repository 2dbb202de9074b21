package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the uniform JSON envelope for API responses.
type Body struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: 0, Message: message, Data: data})
}

// Fail writes a 400 envelope.
func Fail(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusBadRequest, Body{Code: 1, Message: message, Data: data})
}

// NotFound writes a 404 envelope.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Body{Code: 1, Message: message})
}

// Error writes a 500 envelope.
func Error(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Body{Code: 1, Message: message})
}
