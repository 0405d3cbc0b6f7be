// Package ipcheck exposes a diagnostic endpoint reporting whether the caller's
// address belongs to a configured allow-list. It gates nothing; other routes
// do not consult it.
package ipcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler answers allow-list lookups for client addresses.
type Handler struct {
	allowed map[string]bool
}

// NewHandler creates an ipcheck handler from the configured allow-list.
func NewHandler(allowedIPs []string) *Handler {
	allowed := make(map[string]bool, len(allowedIPs))
	for _, ip := range allowedIPs {
		allowed[ip] = true
	}
	return &Handler{allowed: allowed}
}

// Check handles GET /api/check-ip. Always 200; the resolved address honors
// reverse-proxy forwarding headers via gin's ClientIP.
func (h *Handler) Check(c *gin.Context) {
	ip := c.ClientIP()
	c.JSON(http.StatusOK, gin.H{
		"allowed":  h.allowed[ip],
		"clientIp": ip,
	})
}
