// Command seed loads a small demo dataset: three users, a motel with two
// rooms, a standalone room, and one active contract with a bill. Intended
// for local development against an empty database.
package main

import (
	"log"
	"time"

	"rental-portal/internal/audit"
	"rental-portal/internal/auth"
	"rental-portal/internal/billing"
	"rental-portal/internal/config"
	"rental-portal/internal/contract"
	"rental-portal/internal/database"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	appConfig, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(appConfig.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	gormDB := db.DB()

	landlord := models.User{FirstName: "Lan", LastName: "Nguyen", Email: "landlord@example.com", Role: models.RoleLandlord}
	tenant := models.User{FirstName: "Minh", LastName: "Tran", Email: "tenant@example.com", Role: models.RoleTenant}
	admin := models.User{FirstName: "Ad", LastName: "Min", Email: "admin@example.com", Role: models.RoleAdmin}

	for _, u := range []*models.User{&landlord, &tenant, &admin} {
		if err := gormDB.Create(u).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
	}
	log.Printf("Created users: landlord=%s tenant=%s admin=%s", landlord.ID, tenant.ID, admin.ID)

	elec := 3500.0
	water := 15000.0

	motel := models.Motel{
		Name:                   "Sunrise Motel",
		Address:                "12 Nguyen Trai, District 1",
		TotalRooms:             2,
		HasWifi:                true,
		AllowCooking:           true,
		ElectricityCostPerKwh:  &elec,
		WaterCostPerCubicMeter: &water,
		Regulations:            "Quiet hours from 22:00 to 06:00.",
		OwnerID:                landlord.ID,
	}
	if err := gormDB.Create(&motel).Error; err != nil {
		log.Fatalf("Failed to create motel: %v", err)
	}

	rooms := []models.Room{
		{Number: "101", Area: 22, Price: 3200000, MaxOccupancy: 2, HasWifi: true, AllowCooking: true, OwnerID: landlord.ID, MotelID: &motel.ID},
		{Number: "102", Area: 25, Price: 3500000, MaxOccupancy: 3, HasWifi: true, OwnerID: landlord.ID, MotelID: &motel.ID},
		{Number: "A1", Address: "45 Le Loi, District 3", Area: 30, Price: 4500000, MaxOccupancy: 2, AllowPets: true, OwnerID: landlord.ID},
	}
	for i := range rooms {
		if err := gormDB.Create(&rooms[i]).Error; err != nil {
			log.Fatalf("Failed to create room %s: %v", rooms[i].Number, err)
		}
	}
	log.Printf("Created motel %s with %d rooms and 1 standalone room", motel.ID, motel.TotalRooms)

	notifier := notify.NewDispatcher(gormDB)
	events := audit.NewRecorder(gormDB)
	contracts := contract.NewService(gormDB, notifier, events)

	landlordActor := auth.Actor{ID: landlord.ID, Role: models.RoleLandlord}
	created, err := contracts.Create(landlordActor, contract.CreateInput{
		Type:      models.ContractTypeRoom,
		RoomID:    rooms[0].ID,
		TenantID:  tenant.ID,
		StartDate: time.Now().AddDate(0, 0, -30),
		EndDate:   time.Now().AddDate(1, 0, 0),
	})
	if err != nil {
		log.Fatalf("Failed to create contract: %v", err)
	}
	active, err := contracts.Approve(created.ID, tenant.ID)
	if err != nil {
		log.Fatalf("Failed to approve contract: %v", err)
	}
	log.Printf("Created active contract %s on room %s", active.ID, rooms[0].Number)

	bills := billing.NewService(gormDB, notifier)
	bill, err := bills.Create(landlordActor, billing.CreateInput{
		ContractID:       active.ID,
		Month:            time.Now().AddDate(0, -1, 0),
		ElectricityStart: 100,
		ElectricityEnd:   180,
		WaterStart:       10,
		WaterEnd:         14,
	})
	if err != nil {
		log.Fatalf("Failed to create bill: %v", err)
	}
	log.Printf("Created bill %s (total: %.0f)", bill.ID, bill.TotalAmount)

	log.Println("Seed complete")
}
