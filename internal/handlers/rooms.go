package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"rental-portal/internal/auth"
	"rental-portal/internal/models"
	"rental-portal/internal/search"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RoomHandler owns room CRUD. Occupancy fields (status, current tenant) are
// never writable here; they move only through the contract engine.
type RoomHandler struct {
	db           *gorm.DB
	searchClient *search.SearchClient
}

func NewRoomHandler(db *gorm.DB, searchClient *search.SearchClient) *RoomHandler {
	return &RoomHandler{db: db, searchClient: searchClient}
}

type roomPayload struct {
	Number  string  `json:"number" binding:"required"`
	Address string  `json:"address"`
	Area    float64 `json:"area"`
	Price   float64 `json:"price"`

	MaxOccupancy int  `json:"max_occupancy"`
	AllowPets    bool `json:"allow_pets"`
	AllowCooking bool `json:"allow_cooking"`
	HasWifi      bool `json:"has_wifi"`
	HasParking   bool `json:"has_parking"`
	Floor        *int `json:"floor"`

	ElectricityCostPerKwh  *float64 `json:"electricity_cost_per_kwh"`
	WaterCostPerCubicMeter *float64 `json:"water_cost_per_cubic_meter"`
	InternetCost           *float64 `json:"internet_cost"`
	ParkingCost            *float64 `json:"parking_cost"`
	ServiceFee             *float64 `json:"service_fee"`
	PaymentCycleMonths     *int     `json:"payment_cycle_months"`

	Description string  `json:"description"`
	MotelID     *string `json:"motel_id"`
}

// Create handles POST /api/rooms (landlord or admin).
func (h *RoomHandler) Create(c *gin.Context) {
	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := auth.FromContext(c)

	if payload.MotelID != nil {
		var motel models.Motel
		if err := h.db.Where("id = ?", *payload.MotelID).First(&motel).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Motel not found"})
			return
		}
		if !actor.IsAdmin() && motel.OwnerID != actor.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot add rooms to another landlord's motel"})
			return
		}
	}

	room := models.Room{
		Number:       payload.Number,
		Address:      payload.Address,
		Area:         payload.Area,
		Price:        payload.Price,
		Status:       models.RoomStatusVacant,
		MaxOccupancy: payload.MaxOccupancy,
		AllowPets:    payload.AllowPets,
		AllowCooking: payload.AllowCooking,
		HasWifi:      payload.HasWifi,
		HasParking:   payload.HasParking,
		Floor:        payload.Floor,

		ElectricityCostPerKwh:  payload.ElectricityCostPerKwh,
		WaterCostPerCubicMeter: payload.WaterCostPerCubicMeter,
		InternetCost:           payload.InternetCost,
		ParkingCost:            payload.ParkingCost,
		ServiceFee:             payload.ServiceFee,
		PaymentCycleMonths:     payload.PaymentCycleMonths,

		Description: payload.Description,
		OwnerID:     actor.ID,
		MotelID:     payload.MotelID,
	}
	if room.MaxOccupancy == 0 {
		room.MaxOccupancy = 2
	}

	if err := h.db.Create(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	if err := h.searchClient.IndexRoom(&room); err != nil {
		log.Printf("Warning: Failed to index room %s: %v", room.ID, err)
	}

	c.JSON(http.StatusCreated, room)
}

// List handles GET /api/rooms with basic query filters.
func (h *RoomHandler) List(c *gin.Context) {
	q := h.db.Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if motelID := c.Query("motel_id"); motelID != "" {
		q = q.Where("motel_id = ?", motelID)
	}
	if ownerID := c.Query("owner_id"); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if minPriceStr := c.Query("min_price"); minPriceStr != "" {
		if minPrice, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
			q = q.Where("price >= ?", minPrice)
		}
	}
	if maxPriceStr := c.Query("max_price"); maxPriceStr != "" {
		if maxPrice, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
			q = q.Where("price <= ?", maxPrice)
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			q = q.Limit(limit)
		}
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// Get handles GET /api/rooms/:id.
func (h *RoomHandler) Get(c *gin.Context) {
	var room models.Room
	if err := h.db.Where("id = ?", c.Param("id")).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// Update handles PUT /api/rooms/:id (owner or admin). Status and current
// tenant are deliberately absent from the payload.
func (h *RoomHandler) Update(c *gin.Context) {
	var room models.Room
	if err := h.db.Where("id = ?", c.Param("id")).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	actor := auth.FromContext(c)
	if !actor.IsAdmin() && room.OwnerID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to update this room"})
		return
	}

	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room.Number = payload.Number
	room.Address = payload.Address
	room.Area = payload.Area
	room.Price = payload.Price
	if payload.MaxOccupancy > 0 {
		room.MaxOccupancy = payload.MaxOccupancy
	}
	room.AllowPets = payload.AllowPets
	room.AllowCooking = payload.AllowCooking
	room.HasWifi = payload.HasWifi
	room.HasParking = payload.HasParking
	room.Floor = payload.Floor
	room.ElectricityCostPerKwh = payload.ElectricityCostPerKwh
	room.WaterCostPerCubicMeter = payload.WaterCostPerCubicMeter
	room.InternetCost = payload.InternetCost
	room.ParkingCost = payload.ParkingCost
	room.ServiceFee = payload.ServiceFee
	room.PaymentCycleMonths = payload.PaymentCycleMonths
	room.Description = payload.Description

	if err := h.db.Save(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
		return
	}

	if err := h.searchClient.IndexRoom(&room); err != nil {
		log.Printf("Warning: Failed to index room %s: %v", room.ID, err)
	}

	c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /api/rooms/:id (owner or admin). A room referenced
// by an active or pending contract cannot be deleted.
func (h *RoomHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Where("id = ?", id).First(&room).Error; err != nil {
			return err
		}

		actor := auth.FromContext(c)
		if !actor.IsAdmin() && room.OwnerID != actor.ID {
			return errForbidden
		}

		var count int64
		if err := tx.Model(&models.Contract{}).
			Where("room_id = ? AND status IN ?", id,
				[]models.ContractStatus{models.ContractStatusActive, models.ContractStatusPendingTenant}).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errInUse
		}

		return tx.Delete(&models.Room{}, "id = ?", id).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	case errors.Is(err, errForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to delete this room"})
		return
	case errors.Is(err, errInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Room has active or pending contracts"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}

	if err := h.searchClient.DeleteRoom(id); err != nil {
		log.Printf("Warning: Failed to remove room %s from index: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}

var (
	errForbidden = errors.New("forbidden")
	errInUse     = errors.New("in use")
)
