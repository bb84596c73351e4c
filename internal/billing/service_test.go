package billing

import (
	"testing"
	"time"

	"rental-portal/internal/apperr"
	"rental-portal/internal/auth"
	"rental-portal/internal/database"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return NewService(db, notify.NewDispatcher(db)), db
}

type fixture struct {
	landlord auth.Actor
	tenant   auth.Actor
	admin    auth.Actor
	contract models.Contract
}

func seedContract(t *testing.T, db *gorm.DB, status models.ContractStatus) fixture {
	t.Helper()

	landlord := models.User{FirstName: "Lan", LastName: "Nguyen", Email: uuid.NewString() + "@example.com", Role: models.RoleLandlord}
	tenant := models.User{FirstName: "Minh", LastName: "Tran", Email: uuid.NewString() + "@example.com", Role: models.RoleTenant}
	admin := models.User{FirstName: "Ops", Email: uuid.NewString() + "@example.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&landlord).Error)
	require.NoError(t, db.Create(&tenant).Error)
	require.NoError(t, db.Create(&admin).Error)

	room := models.Room{Number: "101", OwnerID: landlord.ID, Price: 3200000}
	require.NoError(t, db.Create(&room).Error)

	c := models.Contract{
		Type:                   models.ContractTypeRoom,
		RoomID:                 &room.ID,
		TenantID:               tenant.ID,
		StartDate:              time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		MonthlyRent:            3200000,
		Deposit:                6400000,
		ElectricityCostPerKwh:  3500,
		WaterCostPerCubicMeter: 15000,
		InternetCost:           100000,
		ParkingCost:            50000,
		ServiceFee:             30000,
		Status:                 status,
	}
	require.NoError(t, db.Create(&c).Error)

	return fixture{
		landlord: auth.Actor{ID: landlord.ID, Role: models.RoleLandlord},
		tenant:   auth.Actor{ID: tenant.ID, Role: models.RoleTenant},
		admin:    auth.Actor{ID: admin.ID, Role: models.RoleAdmin},
		contract: c,
	}
}

func readings(contractID string) CreateInput {
	return CreateInput{
		ContractID:       contractID,
		Month:            time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
		ElectricityStart: 100,
		ElectricityEnd:   180,
		WaterStart:       10,
		WaterEnd:         14,
		OtherFees:        20000,
	}
}

func TestCreateComputesTotal(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusActive)

	b, err := s.Create(fx.landlord, readings(fx.contract.ID))
	require.NoError(t, err)

	// rent + 80 kWh * 3500 + 4 m3 * 15000 + internet + parking + service + other
	assert.Equal(t, float64(3200000+280000+60000+100000+50000+30000+20000), b.TotalAmount)
	assert.Equal(t, 3500.0, b.ElectricityRate)
	assert.Equal(t, 15000.0, b.WaterRate)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), b.Month)
	assert.False(t, b.IsPaid)

	var count int64
	db.Model(&models.Notification{}).Where("to_user_id = ?", fx.tenant.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateRateOverrides(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusActive)

	elec, water := 4000.0, 20000.0
	in := readings(fx.contract.ID)
	in.ElectricityRate = &elec
	in.WaterRate = &water

	b, err := s.Create(fx.landlord, in)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, b.ElectricityRate)
	assert.Equal(t, float64(3200000+320000+80000+100000+50000+30000+20000), b.TotalAmount)
}

func TestCreatePermissions(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusActive)

	_, err := s.Create(fx.tenant, readings(fx.contract.ID))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	other := auth.Actor{ID: "other-landlord", Role: models.RoleLandlord}
	_, err = s.Create(other, readings(fx.contract.ID))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = s.Create(fx.admin, readings(fx.contract.ID))
	assert.NoError(t, err)
}

func TestCreateRejectsPendingContract(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusPendingTenant)

	_, err := s.Create(fx.landlord, readings(fx.contract.ID))
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateTerminatedContractStillBillable(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusTerminated)

	_, err := s.Create(fx.landlord, readings(fx.contract.ID))
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusActive)

	in := readings(fx.contract.ID)
	in.ElectricityEnd = in.ElectricityStart - 1
	_, err := s.Create(fx.landlord, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = readings(fx.contract.ID)
	in.WaterEnd = in.WaterStart - 1
	_, err = s.Create(fx.landlord, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = readings(fx.contract.ID)
	in.OtherFees = -1
	_, err = s.Create(fx.landlord, in)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in = readings("missing")
	_, err = s.Create(fx.landlord, in)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestMarkPaid(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusActive)

	b, err := s.Create(fx.landlord, readings(fx.contract.ID))
	require.NoError(t, err)

	_, err = s.MarkPaid(fx.tenant, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	paid, err := s.MarkPaid(fx.landlord, b.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.NotNil(t, paid.PaidAt)

	_, err = s.MarkPaid(fx.landlord, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestListVisibility(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusActive)
	other := seedContract(t, db, models.ContractStatusActive)

	_, err := s.Create(fx.landlord, readings(fx.contract.ID))
	require.NoError(t, err)
	_, err = s.Create(other.landlord, readings(other.contract.ID))
	require.NoError(t, err)

	all, err := s.List(fx.admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.List(fx.landlord, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, fx.contract.ID, mine[0].ContractID)

	tenants, err := s.List(other.tenant, "")
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, other.contract.ID, tenants[0].ContractID)
}

func TestGetVisibility(t *testing.T) {
	s, db := newTestService(t)
	fx := seedContract(t, db, models.ContractStatusActive)

	b, err := s.Create(fx.landlord, readings(fx.contract.ID))
	require.NoError(t, err)

	_, err = s.Get(fx.tenant, b.ID)
	assert.NoError(t, err)
	_, err = s.Get(fx.landlord, b.ID)
	assert.NoError(t, err)

	stranger := auth.Actor{ID: "stranger", Role: models.RoleTenant}
	_, err = s.Get(stranger, b.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = s.Get(fx.admin, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
