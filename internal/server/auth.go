package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// SellerTokenRequired gates the seller report routes behind the static
// bearer token from configuration. With no token configured the routes
// stay closed.
func (s *Server) SellerTokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.cfg.APIToken
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		presented := strings.TrimSpace(strings.TrimPrefix(header, prefix))
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}
