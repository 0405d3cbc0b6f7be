// Package response implements the API's JSON envelope: {message, data} on
// success, {error} on failure.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success is the envelope for 200 responses; data is always present, even
// when it is an empty list.
type Success struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Failure is the envelope for error responses.
type Failure struct {
	Error string `json:"error"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Success{Message: "success", Data: data})
}

// BadRequest sends 400 with an error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Failure{Error: err})
}

// Internal sends 500 with an error message.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Failure{Error: err})
}
