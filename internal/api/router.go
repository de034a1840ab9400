package api

import (
	ledgerhandler "fxledger/internal/ledger/handler"
	ratehandler "fxledger/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(ledgerHandler *ledgerhandler.Handler, rateHandler *ratehandler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Post("/api/v1/accounts/{number}/deposit", ledgerHandler.Deposit)
	router.Post("/api/v1/accounts/{number}/withdraw", ledgerHandler.Withdraw)
	router.Get("/api/v1/accounts/{number}/balance", ledgerHandler.GetBalance)

	router.Get("/api/v1/rates/supported-currencies", rateHandler.GetSupportedCodes)
	router.Get("/api/v1/rates/{currency:[A-Za-z]{3}}", rateHandler.GetQuote)
	return router
}
