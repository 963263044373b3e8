package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/regwizard/internal/app/models/dto"
)

const validatedBodyKey = "validatedBody"

// ValidateJSON binds the request body into a fresh T, checks its binding
// tags and stores the result for the handler. Invalid bodies are rejected
// with a 400 listing the failing fields.
func ValidateJSON[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T
		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}
		c.Set(validatedBodyKey, &body)
		c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateJSON
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(validatedBodyKey)
	if !ok {
		return nil, false
	}
	body, ok := v.(*T)
	return body, ok
}
