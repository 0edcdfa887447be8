package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const storeIDKey = "store_id"

// Tenant resolves the caller's store from the X-Store-ID header and makes it
// available to handlers. Every tenant-scoped route sits behind this; services
// and repositories always receive the store id explicitly and never read it
// from ambient state.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Store-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Store-ID header is required"})
			return
		}
		storeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || storeID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Store-ID must be a positive integer"})
			return
		}
		c.Set(storeIDKey, storeID)
		c.Next()
	}
}

// StoreID returns the store resolved by Tenant for this request.
func StoreID(c *gin.Context) int64 {
	return c.GetInt64(storeIDKey)
}
