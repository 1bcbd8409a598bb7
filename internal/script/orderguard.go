package script

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/udisondev/togglebot/internal/event"
	"github.com/udisondev/togglebot/internal/model"
)

// OrderGuard vetoes orders beyond a per-second budget. Stop orders always pass.
type OrderGuard struct {
	limiter *rate.Limiter
	allowed atomic.Int64
	vetoed  atomic.Int64
}

// NewOrderGuard allows perSecond orders on average with the given burst.
func NewOrderGuard(perSecond float64, burst int) *OrderGuard {
	if burst < 1 {
		burst = 1
	}
	return &OrderGuard{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Name implements Script.
func (g *OrderGuard) Name() string { return "orderguard" }

// Register implements Script.
func (g *OrderGuard) Register(bus *event.Bus) {
	bus.Intercept(g.Name(), g.allow)
}

func (g *OrderGuard) allow(_ context.Context, order *model.Order) bool {
	if order.Kind == model.OrderStop {
		return true
	}

	at := order.IssuedAt
	if at.IsZero() {
		at = time.Now()
	}
	if !g.limiter.AllowN(at, 1) {
		g.vetoed.Add(1)
		slog.Warn("order dropped by humanizer budget",
			"order", order.Kind,
			"ability", order.Ability,
			"issuer", order.IssuerID)
		return false
	}
	g.allowed.Add(1)
	return true
}

// Stats returns how many orders were allowed and vetoed.
func (g *OrderGuard) Stats() (allowed, vetoed int64) {
	return g.allowed.Load(), g.vetoed.Load()
}
