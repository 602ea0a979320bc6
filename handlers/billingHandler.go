package handlers

import (
	"AfyaCare/models"
	"AfyaCare/services"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	service *services.BillingService
}

func NewBillingHandler(service *services.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

func (h *BillingHandler) CreateBilling(c *gin.Context) {
	var billing models.Billing
	if err := c.ShouldBindJSON(&billing); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, &billing); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, billing)
}

func (h *BillingHandler) GetBillingByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	billing, err := h.service.GetByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if billing == nil {
		c.JSON(404, gin.H{"error": "Billing not found"})
		return
	}
	c.JSON(200, billing)
}

func (h *BillingHandler) GetAllBillings(c *gin.Context) {
	billings, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, billings)
}

type paymentInput struct {
	Amount          interface{} `json:"amount"`
	PaymentMethod   string      `json:"payment_method"`
	ReferenceNumber string      `json:"reference_number"`
	CreatedByID     *int64      `json:"created_by_id"`
}

func (h *BillingHandler) AddPayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var input paymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	payment, billing, err := h.service.RecordPayment(
		c, id, amountString(input.Amount), input.PaymentMethod, input.ReferenceNumber, input.CreatedByID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, gin.H{"payment": payment, "billing": billing})
}

func (h *BillingHandler) MarkPaid(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var input paymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	payment, billing, err := h.service.MarkPaid(c, id, input.PaymentMethod, input.ReferenceNumber, input.CreatedByID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"payment": payment, "billing": billing})
}

type cancelInput struct {
	Reason      string `json:"reason"`
	CancelledBy *int64 `json:"cancelled_by_id"`
}

func (h *BillingHandler) CancelBilling(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var input cancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	billing, err := h.service.Cancel(c, id, input.Reason, input.CancelledBy)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, billing)
}

func (h *BillingHandler) DeletePayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePayment(c, id); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Payment deleted"})
}

func (h *BillingHandler) GetBalance(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	balance, err := h.service.BalanceFor(c, id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"billing_id": id, "balance": balance})
}

func (h *BillingHandler) SearchBillings(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(400, gin.H{"error": "query parameter q is required"})
		return
	}
	billings, err := h.service.Search(c, q)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, billings)
}

func (h *BillingHandler) BillingReports(c *gin.Context) {
	report, err := h.service.Reports(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, report)
}
