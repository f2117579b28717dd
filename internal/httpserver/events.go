package httpserver

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	eventCart       = "cartUpdated"
	eventComparison = "comparisonUpdated"
	eventPing       = "ping"
)

type countEvent struct {
	Count int `json:"count"`
}

// events streams a named event whenever the caller's cart or comparison set
// changes. Each event carries the fresh count for the header badge. The
// current counts are sent on connect.
func (h *handlers) events(c *gin.Context) {
	clientID := clientIDFrom(c)
	carts, releaseCart := h.deps.Carts.Acquire(clientID)
	defer releaseCart()
	comparisons, releaseComparison := h.deps.Comparisons.Acquire(clientID)
	defer releaseComparison()

	signals := make(chan string, 8)
	signal := func(name string) func() {
		return func() {
			select {
			case signals <- name:
			default:
			}
		}
	}
	defer carts.Subscribe(signal(eventCart))()
	defer comparisons.Subscribe(signal(eventComparison))()
	signals <- eventCart
	signals <- eventComparison

	count := func(ctx context.Context, name string) (int, error) {
		if name == eventCart {
			return carts.Count(ctx)
		}
		return comparisons.Count(ctx)
	}

	heartbeat := time.NewTicker(h.deps.Heartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-h.deps.closing:
			return false
		case <-heartbeat.C:
			c.SSEvent(eventPing, gin.H{})
			return true
		case name := <-signals:
			n, err := count(ctx, name)
			if err != nil {
				h.logger.Printf("events %s: count %s: %v", clientID, name, err)
				return true
			}
			c.SSEvent(name, countEvent{Count: n})
			return true
		}
	})
}
