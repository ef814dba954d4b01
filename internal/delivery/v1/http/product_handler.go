package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mastimed/mobilegestion/internal/usecase"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/logger"
)

type ProductHandler struct {
	ledger usecase.LedgerUC
	logger logger.Logger
}

func NewProductHandler(ledger usecase.LedgerUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{ledger: ledger, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает товары склада, последние добавленные первыми. Параметр q фильтрует по подстроке названия без учёта регистра.
//	@Tags			products
//	@Produce		json
//	@Param			q	query		string	false	"Строка поиска"
//	@Success		200	{object}	ProductListResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	products := p.ledger.FilteredList(query)

	WriteSuccess(w, http.StatusOK, ProductListResponse{
		Query:    query,
		Total:    len(products),
		Products: toArrProductResponse(products),
	})
}

// addProduct
//
//	@Summary		Добавление товара
//	@Description	Проверяет поля формы и добавляет товар в начало списка
//	@Tags			products
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			name				formData	string	true	"Название"
//	@Param			type				formData	string	false	"phone или part"
//	@Param			stock				formData	integer	true	"Остаток"
//	@Param			low_stock_threshold	formData	integer	true	"Порог низкого остатка"
//	@Param			purchase_price		formData	number	true	"Закупочная цена"
//	@Param			selling_price		formData	number	true	"Цена продажи"
//	@Success		201					{object}	ProductResponse
//	@Failure		400					{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	form, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		WriteError(w, err)
		return
	}

	fields, err := usecase.ValidateProductForm(form)
	if err != nil {
		p.logger.Debugf("add product rejected: %v", err)
		WriteError(w, err)
		return
	}

	product := p.ledger.AddProduct(fields)
	p.logger.Infof("product %s added: %q, stock %d", product.ID, product.Name, product.Stock)

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// getProduct
//
//	@Summary	Товар по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Идентификатор товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := p.ledger.Product(chi.URLParam(r, "id"))
	if !ok {
		WriteError(w, e.ErrProductNotFound)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// listLowStock
//
//	@Summary		Товары с низким остатком
//	@Description	Товары с остатком не выше порога, по возрастанию остатка
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	ProductListResponse
//	@Router			/products/low-stock [get]
func (p *ProductHandler) listLowStock(w http.ResponseWriter, r *http.Request) {
	products := p.ledger.LowStockList()

	WriteSuccess(w, http.StatusOK, ProductListResponse{
		Total:    len(products),
		Products: toArrProductResponse(products),
	})
}

// adjustStock
//
//	@Summary		Изменение остатка
//	@Description	Прибавляет delta к остатку, остаток не опускается ниже нуля. Неизвестный товар игнорируется.
//	@Tags			products
//	@Accept			x-www-form-urlencoded
//	@Param			id		path		string	true	"Идентификатор товара"
//	@Param			delta	formData	integer	true	"Изменение остатка"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Router			/products/{id}/stock [patch]
func (p *ProductHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		WriteError(w, err)
		return
	}

	delta, err := usecase.ParseStockDelta(r.FormValue("delta"))
	if err != nil {
		WriteError(w, err)
		return
	}

	p.ledger.AdjustStock(chi.URLParam(r, "id"), delta)
	w.WriteHeader(http.StatusNoContent)
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Удаляет товар; история продаж сохраняется. Неизвестный товар игнорируется.
//	@Tags			products
//	@Param			id	path	string	true	"Идентификатор товара"
//	@Success		204
//	@Router			/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if p.ledger.DeleteProduct(id) {
		p.logger.Infof("product %s deleted", id)
	}

	w.WriteHeader(http.StatusNoContent)
}
