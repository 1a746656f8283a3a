package respond

import "github.com/gin-gonic/gin"

// JSON writes a JSON response with the given status. Success payloads
// go out bare; failures go through Error so every handler shares the
// same error envelope.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}
