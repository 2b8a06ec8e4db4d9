package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet-core/internal/store"
)

// MakeHealthHandler handles GET /healthz, reporting the store and
// event publisher's reachability.
func MakeHealthHandler(deps Dependencies) gin.HandlerFunc {
	s := deps.GetStore()
	publisher := deps.GetEventPublisher()

	return func(c *gin.Context) {
		storeOK := s.WithReadOnlyTx(c.Request.Context(), func(ctx context.Context, tx store.Tx) error {
			return nil
		}) == nil

		eventsOK := publisher.IsHealthy()

		status := http.StatusOK
		if !storeOK {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"store":  storeOK,
			"events": eventsOK,
		})
	}
}
