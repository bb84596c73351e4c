package handlers

import (
	"net/http"

	"rental-portal/internal/auth"
	"rental-portal/internal/billing"

	"github.com/gin-gonic/gin"
)

// BillHandler exposes the billing ledger over HTTP.
type BillHandler struct {
	bills *billing.Service
}

func NewBillHandler(bills *billing.Service) *BillHandler {
	return &BillHandler{bills: bills}
}

type billPayload struct {
	ContractID string `json:"contract_id" binding:"required"`
	Month      string `json:"month" binding:"required"`

	ElectricityStart int `json:"electricity_start"`
	ElectricityEnd   int `json:"electricity_end"`
	WaterStart       int `json:"water_start"`
	WaterEnd         int `json:"water_end"`

	ElectricityRate *float64 `json:"electricity_rate"`
	WaterRate       *float64 `json:"water_rate"`
	OtherFees       float64  `json:"other_fees"`
}

// Create handles POST /api/bills (landlord or admin).
func (h *BillHandler) Create(c *gin.Context) {
	var payload billPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	month, err := parseDate(payload.Month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return
	}

	actor := auth.FromContext(c)
	created, err := h.bills.Create(actor, billing.CreateInput{
		ContractID:       payload.ContractID,
		Month:            month,
		ElectricityStart: payload.ElectricityStart,
		ElectricityEnd:   payload.ElectricityEnd,
		WaterStart:       payload.WaterStart,
		WaterEnd:         payload.WaterEnd,
		ElectricityRate:  payload.ElectricityRate,
		WaterRate:        payload.WaterRate,
		OtherFees:        payload.OtherFees,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/bills, optionally filtered by contract_id.
func (h *BillHandler) List(c *gin.Context) {
	actor := auth.FromContext(c)
	bills, err := h.bills.List(actor, c.Query("contract_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

// Get handles GET /api/bills/:id.
func (h *BillHandler) Get(c *gin.Context) {
	actor := auth.FromContext(c)
	bill, err := h.bills.Get(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

// MarkPaid handles POST /api/bills/:id/pay.
func (h *BillHandler) MarkPaid(c *gin.Context) {
	actor := auth.FromContext(c)
	bill, err := h.bills.MarkPaid(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}
