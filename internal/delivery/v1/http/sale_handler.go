package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mastimed/mobilegestion/internal/usecase"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/logger"
)

type SaleHandler struct {
	ledger usecase.LedgerUC
	logger logger.Logger
}

func NewSaleHandler(ledger usecase.LedgerUC, logger logger.Logger) *SaleHandler {
	return &SaleHandler{ledger: ledger, logger: logger}
}

// recordSale
//
//	@Summary		Продажа товара
//	@Description	Записывает продажу с ценами на момент продажи и списывает остаток
//	@Tags			sales
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			id			path		string	true	"Идентификатор товара"
//	@Param			quantity	formData	integer	true	"Количество"
//	@Success		201			{object}	SaleResponse
//	@Failure		400			{object}	ErrorResponse	"Некорректное количество"
//	@Failure		404			{object}	ErrorResponse	"Товар не найден"
//	@Failure		422			{object}	ErrorResponse	"Продажа невозможна"
//	@Router			/products/{id}/sales [post]
func (s *SaleHandler) recordSale(w http.ResponseWriter, r *http.Request) {
	const op = "SaleHandler.recordSale"

	id := chi.URLParam(r, "id")
	if err := parseForm(r); err != nil {
		WriteError(w, err)
		return
	}

	product, ok := s.ledger.Product(id)
	if !ok {
		WriteError(w, e.ErrProductNotFound)
		return
	}

	qty, err := usecase.ValidateSaleQuantity(r.FormValue("quantity"), product.Stock)
	if err != nil {
		WriteError(w, err)
		return
	}

	sale, err := s.ledger.RecordSale(id, qty)
	if err != nil {
		s.logger.Warnf("%v", e.Wrap(op, err))
		WriteError(w, err)
		return
	}

	s.logger.Infof("sale %s recorded: product %s, quantity %d", sale.ID, sale.ProductID, sale.Quantity)
	WriteSuccess(w, http.StatusCreated, toSaleResponse(sale))
}

// listSales
//
//	@Summary	Журнал продаж
//	@Tags		sales
//	@Produce	json
//	@Success	200	{object}	SaleListResponse
//	@Router		/sales [get]
func (s *SaleHandler) listSales(w http.ResponseWriter, r *http.Request) {
	sales := s.ledger.Sales()

	WriteSuccess(w, http.StatusOK, SaleListResponse{
		Total: len(sales),
		Sales: toArrSaleResponse(sales),
	})
}

// getSummary
//
//	@Summary		Сводка склада
//	@Description	Стоимость остатков по закупочным ценам и накопленная прибыль
//	@Tags			summary
//	@Produce		json
//	@Success		200	{object}	SummaryResponse
//	@Router			/summary [get]
func (s *SaleHandler) getSummary(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, toSummaryResponse(s.ledger.Summary()))
}
