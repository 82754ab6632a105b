package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/billing"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucBilling "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/billing"
)

type PaymentVoucherHandler struct {
	createUC *ucBilling.CreatePaymentVoucher
	updateUC *ucBilling.UpdatePaymentVoucher
	deleteUC *ucBilling.DeletePaymentVoucher
	listUC   *ucBilling.ListPaymentVouchers
	getUC    *ucBilling.GetPaymentVoucher
}

func NewPaymentVoucherHandler(
	createUC *ucBilling.CreatePaymentVoucher,
	updateUC *ucBilling.UpdatePaymentVoucher,
	deleteUC *ucBilling.DeletePaymentVoucher,
	listUC *ucBilling.ListPaymentVouchers,
	getUC *ucBilling.GetPaymentVoucher,
) *PaymentVoucherHandler {
	return &PaymentVoucherHandler{
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		listUC:   listUC,
		getUC:    getUC,
	}
}

// --------- Requests ---------

type VoucherDetailRequest struct {
	ConsultedServiceID uint            `json:"consultedServiceId" binding:"required"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentMethod      string          `json:"paymentMethod"`
}

type CreatePaymentVoucherRequest struct {
	CustomerID  uint                   `json:"customerId" binding:"required"`
	PaymentDate *string                `json:"paymentDate"`
	Notes       string                 `json:"notes"`
	Details     []VoucherDetailRequest `json:"details" binding:"dive"`
}

type UpdatePaymentVoucherRequest struct {
	PaymentDate *string                `json:"paymentDate"`
	Notes       *string                `json:"notes"`
	Details     []VoucherDetailRequest `json:"details" binding:"dive"`
}

func detailInputs(in []VoucherDetailRequest) []domain.DetailInput {
	out := make([]domain.DetailInput, 0, len(in))
	for _, d := range in {
		out = append(out, domain.DetailInput{
			ConsultedServiceID: d.ConsultedServiceID,
			Amount:             d.Amount,
			PaymentMethod:      d.PaymentMethod,
		})
	}
	return out
}

// --------- Handlers ---------

func (h *PaymentVoucherHandler) Create(c *gin.Context) {
	var req CreatePaymentVoucherRequest
	if !bindJSON(c, &req) {
		return
	}

	paymentDate, err := parseOptionalDateTime(req.PaymentDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_payment_date", "Ngày thu không hợp lệ.")
		return
	}

	v, err := h.createUC.Execute(c.Request.Context(), ucBilling.CreatePaymentVoucherInput{
		Actor:       middleware.Actor(c),
		CustomerID:  req.CustomerID,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
		Details:     detailInputs(req.Details),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, v)
}

func (h *PaymentVoucherHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentVoucherRequest
	if !bindJSON(c, &req) {
		return
	}

	paymentDate, err := parseOptionalDateTime(req.PaymentDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_payment_date", "Ngày thu không hợp lệ.")
		return
	}

	v, err := h.updateUC.Execute(c.Request.Context(), ucBilling.UpdatePaymentVoucherInput{
		Actor:       middleware.Actor(c),
		VoucherID:   id,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
		Details:     detailInputs(req.Details),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}

func (h *PaymentVoucherHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List accepts either a single ?date= or a ?from=&to= range of clinic days.
func (h *PaymentVoucherHandler) List(c *gin.Context) {
	customerID, ok := uintQuery(c, "customerId")
	if !ok {
		return
	}

	page := httpresp.PageFromQuery(c)
	filter := domain.VoucherFilter{
		ClinicID:   middleware.Actor(c).ClinicID,
		CustomerID: customerID,
		Offset:     page.Offset(),
		Limit:      page.Size,
	}

	fromStr, toStr := c.Query("from"), c.Query("to")
	if date := c.Query("date"); date != "" {
		fromStr, toStr = date, date
	}
	if fromStr != "" {
		from, err := timezone.ParseDay(fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Ngày không hợp lệ, định dạng YYYY-MM-DD.")
			return
		}
		filter.From = &from
	}
	if toStr != "" {
		to, err := timezone.ParseDay(toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Ngày không hợp lệ, định dạng YYYY-MM-DD.")
			return
		}
		_, end := timezone.DayBounds(to)
		filter.To = &end
	}

	items, total, err := h.listUC.Execute(c.Request.Context(), filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Paginated(c, page, items, total)
}

func (h *PaymentVoucherHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	v, err := h.getUC.Execute(c.Request.Context(), middleware.Actor(c).ClinicID, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}
