package handlers

import (
	"net/http"

	"rental-portal/internal/auth"
	"rental-portal/internal/contract"
	"rental-portal/internal/models"

	"github.com/gin-gonic/gin"
)

// RequestHandler exposes the contract negotiation flow over HTTP.
type RequestHandler struct {
	requests *contract.RequestService
}

func NewRequestHandler(requests *contract.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

type requestPayload struct {
	Type     string `json:"type" binding:"required"`
	RoomID   string `json:"room_id"`
	MotelID  string `json:"motel_id"`
	TenantID string `json:"tenant_id" binding:"required"`

	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`

	MonthlyRent float64 `json:"monthly_rent" binding:"required"`
	Deposit     float64 `json:"deposit"`

	ElectricityCostPerKwh  *float64 `json:"electricity_cost_per_kwh"`
	WaterCostPerCubicMeter *float64 `json:"water_cost_per_cubic_meter"`
	InternetCost           *float64 `json:"internet_cost"`
	ParkingCost            *float64 `json:"parking_cost"`
	ServiceFee             *float64 `json:"service_fee"`

	SpecialTerms string `json:"special_terms"`
	Message      string `json:"message"`
}

// Create handles POST /api/contract-requests.
func (h *RequestHandler) Create(c *gin.Context) {
	var payload requestPayload
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
	created, err := h.requests.Create(actor, contract.RequestInput{
		Type:      models.ContractType(payload.Type),
		RoomID:    payload.RoomID,
		MotelID:   payload.MotelID,
		TenantID:  payload.TenantID,
		StartDate: start,
		EndDate:   end,

		MonthlyRent: payload.MonthlyRent,
		Deposit:     payload.Deposit,

		ElectricityCostPerKwh:  payload.ElectricityCostPerKwh,
		WaterCostPerCubicMeter: payload.WaterCostPerCubicMeter,
		InternetCost:           payload.InternetCost,
		ParkingCost:            payload.ParkingCost,
		ServiceFee:             payload.ServiceFee,

		SpecialTerms: payload.SpecialTerms,
		Message:      payload.Message,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/contract-requests.
func (h *RequestHandler) List(c *gin.Context) {
	actor := auth.FromContext(c)
	requests, err := h.requests.FindAllForUser(actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Get handles GET /api/contract-requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	actor := auth.FromContext(c)
	found, err := h.requests.FindOne(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

type respondPayload struct {
	ResponseMessage string `json:"response_message"`
}

// Approve handles POST /api/contract-requests/:id/approve.
func (h *RequestHandler) Approve(c *gin.Context) {
	var payload respondPayload
	if err := c.ShouldBindJSON(&payload); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := auth.FromContext(c)
	approved, err := h.requests.Approve(actor, c.Param("id"), payload.ResponseMessage)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, approved)
}

// Reject handles POST /api/contract-requests/:id/reject.
func (h *RequestHandler) Reject(c *gin.Context) {
	var payload respondPayload
	if err := c.ShouldBindJSON(&payload); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := auth.FromContext(c)
	rejected, err := h.requests.Reject(actor, c.Param("id"), payload.ResponseMessage)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rejected)
}

// Cancel handles POST /api/contract-requests/:id/cancel.
func (h *RequestHandler) Cancel(c *gin.Context) {
	actor := auth.FromContext(c)
	cancelled, err := h.requests.Cancel(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

type requestUpdatePayload struct {
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	MonthlyRent *float64 `json:"monthly_rent"`
	Deposit     *float64 `json:"deposit"`

	ElectricityCostPerKwh  *float64 `json:"electricity_cost_per_kwh"`
	WaterCostPerCubicMeter *float64 `json:"water_cost_per_cubic_meter"`
	InternetCost           *float64 `json:"internet_cost"`
	ParkingCost            *float64 `json:"parking_cost"`
	ServiceFee             *float64 `json:"service_fee"`

	SpecialTerms *string `json:"special_terms"`
	Message      *string `json:"message"`
}

// Update handles PUT /api/contract-requests/:id.
func (h *RequestHandler) Update(c *gin.Context) {
	var payload requestUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := contract.RequestUpdateInput{
		MonthlyRent: payload.MonthlyRent,
		Deposit:     payload.Deposit,

		ElectricityCostPerKwh:  payload.ElectricityCostPerKwh,
		WaterCostPerCubicMeter: payload.WaterCostPerCubicMeter,
		InternetCost:           payload.InternetCost,
		ParkingCost:            payload.ParkingCost,
		ServiceFee:             payload.ServiceFee,

		SpecialTerms: payload.SpecialTerms,
		Message:      payload.Message,
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
	updated, err := h.requests.Update(actor, c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
