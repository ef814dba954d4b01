package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/mastimed/mobilegestion/docs" // Импорт сгенерированных файлов
	"github.com/mastimed/mobilegestion/internal/usecase"
	"github.com/mastimed/mobilegestion/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(ledger usecase.LedgerUC) {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(r.logger),
		middleware.Recoverer,
	)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, NewProductHandler(ledger, r.logger))
		registerSaleRoutes(v1, NewSaleHandler(ledger, r.logger))
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Get("/products", prHandler.listProducts)
	router.Post("/products", prHandler.addProduct)
	router.Get("/products/low-stock", prHandler.listLowStock)
	router.Get("/products/{id}", prHandler.getProduct)
	router.Delete("/products/{id}", prHandler.deleteProduct)
	router.Patch("/products/{id}/stock", prHandler.adjustStock)
}

func registerSaleRoutes(router chi.Router, saleHandler *SaleHandler) {
	router.Post("/products/{id}/sales", saleHandler.recordSale)
	router.Get("/sales", saleHandler.listSales)
	router.Get("/summary", saleHandler.getSummary)
}
