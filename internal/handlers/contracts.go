package handlers

import (
	"net/http"

	"rental-portal/internal/audit"
	"rental-portal/internal/auth"
	"rental-portal/internal/contract"
	"rental-portal/internal/models"

	"github.com/gin-gonic/gin"
)

// ContractHandler exposes the contract lifecycle over HTTP.
type ContractHandler struct {
	contracts *contract.Service
	events    *audit.Recorder
}

func NewContractHandler(contracts *contract.Service, events *audit.Recorder) *ContractHandler {
	return &ContractHandler{contracts: contracts, events: events}
}

type contractPayload struct {
	Type     string `json:"type" binding:"required"`
	RoomID   string `json:"room_id"`
	MotelID  string `json:"motel_id"`
	TenantID string `json:"tenant_id" binding:"required"`

	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`

	MonthlyRent        *float64 `json:"monthly_rent"`
	Deposit            *float64 `json:"deposit"`
	PaymentCycleMonths *int     `json:"payment_cycle_months"`
	PaymentDay         *int     `json:"payment_day"`
	MaxOccupants       *int     `json:"max_occupants"`

	ElectricityCostPerKwh  *float64 `json:"electricity_cost_per_kwh"`
	WaterCostPerCubicMeter *float64 `json:"water_cost_per_cubic_meter"`
	InternetCost           *float64 `json:"internet_cost"`
	ParkingCost            *float64 `json:"parking_cost"`
	ServiceFee             *float64 `json:"service_fee"`

	SpecialTerms string `json:"special_terms"`
}

// Create handles POST /api/contracts (landlord or admin).
func (h *ContractHandler) Create(c *gin.Context) {
	var payload contractPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(payload.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
		return
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
		return
	}

	actor := auth.FromContext(c)
	created, err := h.contracts.Create(actor, contract.CreateInput{
		Type:      models.ContractType(payload.Type),
		RoomID:    payload.RoomID,
		MotelID:   payload.MotelID,
		TenantID:  payload.TenantID,
		StartDate: start,
		EndDate:   end,
		Terms: contract.TermsInput{
			MonthlyRent:            payload.MonthlyRent,
			Deposit:                payload.Deposit,
			PaymentCycleMonths:     payload.PaymentCycleMonths,
			PaymentDay:             payload.PaymentDay,
			MaxOccupants:           payload.MaxOccupants,
			ElectricityCostPerKwh:  payload.ElectricityCostPerKwh,
			WaterCostPerCubicMeter: payload.WaterCostPerCubicMeter,
			InternetCost:           payload.InternetCost,
			ParkingCost:            payload.ParkingCost,
			ServiceFee:             payload.ServiceFee,
		},
		SpecialTerms: payload.SpecialTerms,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/contracts.
func (h *ContractHandler) List(c *gin.Context) {
	actor := auth.FromContext(c)
	contracts, err := h.contracts.FindAll(actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// Get handles GET /api/contracts/:id.
func (h *ContractHandler) Get(c *gin.Context) {
	actor := auth.FromContext(c)
	found, err := h.contracts.FindOne(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// Document handles GET /api/contracts/:id/document, returning the generated
// agreement as plain text.
func (h *ContractHandler) Document(c *gin.Context) {
	actor := auth.FromContext(c)
	found, err := h.contracts.FindOne(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(found.DocumentContent))
}

// Approve handles POST /api/contracts/:id/approve (tenant only).
func (h *ContractHandler) Approve(c *gin.Context) {
	actor := auth.FromContext(c)
	approved, err := h.contracts.Approve(c.Param("id"), actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, approved)
}

type contractUpdatePayload struct {
	StartDate          *string  `json:"start_date"`
	EndDate            *string  `json:"end_date"`
	MonthlyRent        *float64 `json:"monthly_rent"`
	Deposit            *float64 `json:"deposit"`
	PaymentDay         *int     `json:"payment_day"`
	PaymentCycleMonths *int     `json:"payment_cycle_months"`
	SpecialTerms       *string  `json:"special_terms"`
}

// Update handles PUT /api/contracts/:id.
func (h *ContractHandler) Update(c *gin.Context) {
	var payload contractUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := contract.UpdateInput{
		MonthlyRent:        payload.MonthlyRent,
		Deposit:            payload.Deposit,
		PaymentDay:         payload.PaymentDay,
		PaymentCycleMonths: payload.PaymentCycleMonths,
		SpecialTerms:       payload.SpecialTerms,
	}
	if payload.StartDate != nil {
		t, err := parseDate(*payload.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
			return
		}
		in.StartDate = &t
	}
	if payload.EndDate != nil {
		t, err := parseDate(*payload.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
			return
		}
		in.EndDate = &t
	}

	actor := auth.FromContext(c)
	updated, err := h.contracts.Update(actor, c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Terminate handles POST /api/contracts/:id/terminate.
func (h *ContractHandler) Terminate(c *gin.Context) {
	actor := auth.FromContext(c)
	terminated, err := h.contracts.Terminate(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, terminated)
}

// Delete handles DELETE /api/contracts/:id (admin only).
func (h *ContractHandler) Delete(c *gin.Context) {
	actor := auth.FromContext(c)
	if err := h.contracts.Remove(actor, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

// History handles GET /api/contracts/:id/history, returning the audit trail
// for one contract. Visibility follows the contract itself.
func (h *ContractHandler) History(c *gin.Context) {
	actor := auth.FromContext(c)
	id := c.Param("id")
	if _, err := h.contracts.FindOne(actor, id); err != nil {
		fail(c, err)
		return
	}

	events, err := h.events.ContractHistory(id, 100)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"contract_id": id,
		"count":       len(events),
		"events":      events,
	})
}
