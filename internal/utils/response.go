package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/marsad11223/product-explorer-api/internal/apperr"
)

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{
		"success": true,
		"data":    data,
	})
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   message,
	})
}

// ErrorFrom maps a service error onto the response envelope using the
// apperr taxonomy.
func ErrorFrom(c *gin.Context, err error) {
	ErrorResponse(c, apperr.HTTPStatus(err), err.Error())
}
