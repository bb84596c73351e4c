package handlers

import (
	"errors"
	"log"
	"net/http"

	"rental-portal/internal/auth"
	"rental-portal/internal/models"
	"rental-portal/internal/search"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MotelHandler owns motel CRUD.
type MotelHandler struct {
	db           *gorm.DB
	searchClient *search.SearchClient
}

func NewMotelHandler(db *gorm.DB, searchClient *search.SearchClient) *MotelHandler {
	return &MotelHandler{db: db, searchClient: searchClient}
}

type motelPayload struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`

	TotalRooms  int      `json:"total_rooms"`
	MonthlyRent *float64 `json:"monthly_rent"`

	HasWifi      bool `json:"has_wifi"`
	HasParking   bool `json:"has_parking"`
	HasElevator  bool `json:"has_elevator"`
	AllowPets    bool `json:"allow_pets"`
	AllowCooking bool `json:"allow_cooking"`

	ElectricityCostPerKwh  *float64 `json:"electricity_cost_per_kwh"`
	WaterCostPerCubicMeter *float64 `json:"water_cost_per_cubic_meter"`
	InternetCost           *float64 `json:"internet_cost"`
	ParkingCost            *float64 `json:"parking_cost"`
	ServiceFee             *float64 `json:"service_fee"`
	PaymentCycleMonths     *int     `json:"payment_cycle_months"`

	Regulations  string `json:"regulations"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
}

// Create handles POST /api/motels (landlord or admin).
func (h *MotelHandler) Create(c *gin.Context) {
	var payload motelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := auth.FromContext(c)
	motel := models.Motel{
		Name:        payload.Name,
		Address:     payload.Address,
		Description: payload.Description,
		TotalRooms:  payload.TotalRooms,
		MonthlyRent: payload.MonthlyRent,

		HasWifi:      payload.HasWifi,
		HasParking:   payload.HasParking,
		HasElevator:  payload.HasElevator,
		AllowPets:    payload.AllowPets,
		AllowCooking: payload.AllowCooking,

		ElectricityCostPerKwh:  payload.ElectricityCostPerKwh,
		WaterCostPerCubicMeter: payload.WaterCostPerCubicMeter,
		InternetCost:           payload.InternetCost,
		ParkingCost:            payload.ParkingCost,
		ServiceFee:             payload.ServiceFee,
		PaymentCycleMonths:     payload.PaymentCycleMonths,

		Regulations:  payload.Regulations,
		ContactPhone: payload.ContactPhone,
		ContactEmail: payload.ContactEmail,
		OwnerID:      actor.ID,
	}

	if err := h.db.Create(&motel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create motel"})
		return
	}

	if err := h.searchClient.IndexMotel(&motel); err != nil {
		log.Printf("Warning: Failed to index motel %s: %v", motel.ID, err)
	}

	c.JSON(http.StatusCreated, motel)
}

// List handles GET /api/motels.
func (h *MotelHandler) List(c *gin.Context) {
	q := h.db.Order("created_at DESC")
	if ownerID := c.Query("owner_id"); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}

	var motels []models.Motel
	if err := q.Find(&motels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list motels"})
		return
	}
	c.JSON(http.StatusOK, motels)
}

// Get handles GET /api/motels/:id, including the motel's rooms.
func (h *MotelHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var motel models.Motel
	if err := h.db.Where("id = ?", id).First(&motel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Motel not found"})
		return
	}

	var rooms []models.Room
	if err := h.db.Where("motel_id = ?", id).Order("number").Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"motel": motel,
		"rooms": rooms,
	})
}

// Update handles PUT /api/motels/:id (owner or admin).
func (h *MotelHandler) Update(c *gin.Context) {
	var motel models.Motel
	if err := h.db.Where("id = ?", c.Param("id")).First(&motel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Motel not found"})
		return
	}

	actor := auth.FromContext(c)
	if !actor.IsAdmin() && motel.OwnerID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to update this motel"})
		return
	}

	var payload motelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	motel.Name = payload.Name
	motel.Address = payload.Address
	motel.Description = payload.Description
	motel.TotalRooms = payload.TotalRooms
	motel.MonthlyRent = payload.MonthlyRent
	motel.HasWifi = payload.HasWifi
	motel.HasParking = payload.HasParking
	motel.HasElevator = payload.HasElevator
	motel.AllowPets = payload.AllowPets
	motel.AllowCooking = payload.AllowCooking
	motel.ElectricityCostPerKwh = payload.ElectricityCostPerKwh
	motel.WaterCostPerCubicMeter = payload.WaterCostPerCubicMeter
	motel.InternetCost = payload.InternetCost
	motel.ParkingCost = payload.ParkingCost
	motel.ServiceFee = payload.ServiceFee
	motel.PaymentCycleMonths = payload.PaymentCycleMonths
	motel.Regulations = payload.Regulations
	motel.ContactPhone = payload.ContactPhone
	motel.ContactEmail = payload.ContactEmail

	if err := h.db.Save(&motel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update motel"})
		return
	}

	if err := h.searchClient.IndexMotel(&motel); err != nil {
		log.Printf("Warning: Failed to index motel %s: %v", motel.ID, err)
	}

	c.JSON(http.StatusOK, motel)
}

// Delete handles DELETE /api/motels/:id (owner or admin). Motels with rooms
// or live contracts cannot be deleted.
func (h *MotelHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var motel models.Motel
		if err := tx.Where("id = ?", id).First(&motel).Error; err != nil {
			return err
		}

		actor := auth.FromContext(c)
		if !actor.IsAdmin() && motel.OwnerID != actor.ID {
			return errForbidden
		}

		var roomCount int64
		if err := tx.Model(&models.Room{}).Where("motel_id = ?", id).Count(&roomCount).Error; err != nil {
			return err
		}
		if roomCount > 0 {
			return errInUse
		}

		var contractCount int64
		if err := tx.Model(&models.Contract{}).
			Where("motel_id = ? AND status IN ?", id,
				[]models.ContractStatus{models.ContractStatusActive, models.ContractStatusPendingTenant}).
			Count(&contractCount).Error; err != nil {
			return err
		}
		if contractCount > 0 {
			return errInUse
		}

		return tx.Delete(&models.Motel{}, "id = ?", id).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Motel not found"})
		return
	case errors.Is(err, errForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "No permission to delete this motel"})
		return
	case errors.Is(err, errInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Motel still has rooms or live contracts"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete motel"})
		return
	}

	if err := h.searchClient.DeleteMotel(id); err != nil {
		log.Printf("Warning: Failed to remove motel %s from index: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Motel deleted"})
}
