package statementhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers financial statement endpoints onto the router.
// Generation hits the database hard on a cold cache, so the routes carry a
// per-client rate limit.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(30, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/finance/statements/balance-sheet", h.handleBalanceSheet)
		gr.Get("/finance/statements/income-statement", h.handleIncomeStatement)
		gr.Get("/finance/statements/cash-flow", h.handleCashFlow)
	})
}
