package httpserver

import (
	"net/http"
	"time"

	"mess-app-go/internal/config"
	"mess-app-go/internal/transport/httpserver/handler"
	authmw "mess-app-go/internal/transport/httpserver/middleware"
	"mess-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, members authmw.MemberResolver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, members, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/meals/board", handlers.GetBoard)
			r.Get("/meals/mine", handlers.ListMyMeals)
			r.Get("/meals/cutoff", handlers.GetCutoff)
			r.Put("/meals/{date}/{period}", handlers.SetMeal)

			r.Post("/admin/meals/materialize", handlers.Materialize)
			r.Post("/admin/meals/backfill", handlers.Backfill)
			r.Delete("/admin/meals/{date}/{period}", handlers.ClearPeriod)

			r.Get("/members", handlers.ListMembers)
			r.Get("/members/me", handlers.GetMe)
			r.Patch("/members/me", handlers.UpdateMe)

			r.Get("/chat/messages", handlers.ListMessages)
			r.Post("/chat/messages", handlers.PostMessage)

			r.Get("/accounting/summary", handlers.GetSummary)
			r.Get("/accounting/eggs/balance", handlers.GetEggBalance)
			r.Post("/accounting/eggs", handlers.PostEggs)
			r.Post("/accounting/expenses", handlers.PostExpense)
			r.Post("/accounting/deposits", handlers.PostDeposit)
		})
	})

	return r
}
