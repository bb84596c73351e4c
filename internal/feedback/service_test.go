package feedback

import (
	"testing"

	"rental-portal/internal/apperr"
	"rental-portal/internal/auth"
	"rental-portal/internal/database"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

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
	room     models.Room
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	landlord := models.User{FirstName: "Lan", Email: "l@x.com", Role: models.RoleLandlord}
	tenant := models.User{FirstName: "Minh", Email: "t@x.com", Role: models.RoleTenant}
	admin := models.User{FirstName: "Ops", Email: "a@x.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&landlord).Error)
	require.NoError(t, db.Create(&tenant).Error)
	require.NoError(t, db.Create(&admin).Error)

	room := models.Room{Number: "101", OwnerID: landlord.ID}
	require.NoError(t, db.Create(&room).Error)

	return fixture{
		landlord: auth.Actor{ID: landlord.ID, Role: models.RoleLandlord},
		tenant:   auth.Actor{ID: tenant.ID, Role: models.RoleTenant},
		admin:    auth.Actor{ID: admin.ID, Role: models.RoleAdmin},
		room:     room,
	}
}

func report(roomID string) CreateInput {
	return CreateInput{RoomID: roomID, Title: "Broken faucet", Description: "The bathroom faucet leaks."}
}

func TestCreateFeedback(t *testing.T) {
	s, db := newTestService(t)
	fx := seedFixture(t, db)

	f, err := s.Create(fx.tenant, report(fx.room.ID))
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusPending, f.Status)
	assert.Equal(t, fx.tenant.ID, f.UserID)

	// The landlord is told about the complaint.
	var count int64
	db.Model(&models.Notification{}).Where("to_user_id = ?", fx.landlord.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = s.Create(fx.tenant, report("missing"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = s.Create(fx.tenant, CreateInput{RoomID: fx.room.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestStatusModeration(t *testing.T) {
	s, db := newTestService(t)
	fx := seedFixture(t, db)

	f, err := s.Create(fx.tenant, report(fx.room.ID))
	require.NoError(t, err)

	inProgress := models.FeedbackStatusInProgress
	// The reporter cannot move the status themselves.
	_, err = s.Update(fx.tenant, f.ID, UpdateInput{Status: &inProgress})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	updated, err := s.Update(fx.landlord, f.ID, UpdateInput{Status: &inProgress})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusInProgress, updated.Status)

	// The reporter hears about the status move.
	var count int64
	db.Model(&models.Notification{}).Where("to_user_id = ?", fx.tenant.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	bogus := models.FeedbackStatus("ESCALATED")
	_, err = s.Update(fx.landlord, f.ID, UpdateInput{Status: &bogus})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	resolved := models.FeedbackStatusResolved
	updated, err = s.Update(fx.admin, f.ID, UpdateInput{Status: &resolved})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusResolved, updated.Status)
}

func TestReporterEditsOnlyWhilePending(t *testing.T) {
	s, db := newTestService(t)
	fx := seedFixture(t, db)

	f, err := s.Create(fx.tenant, report(fx.room.ID))
	require.NoError(t, err)

	title := "Broken faucet and mold"
	updated, err := s.Update(fx.tenant, f.ID, UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	inProgress := models.FeedbackStatusInProgress
	_, err = s.Update(fx.landlord, f.ID, UpdateInput{Status: &inProgress})
	require.NoError(t, err)

	_, err = s.Update(fx.tenant, f.ID, UpdateInput{Title: &title})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// A bystander cannot edit at all.
	stranger := auth.Actor{ID: "stranger", Role: models.RoleTenant}
	_, err = s.Update(stranger, f.ID, UpdateInput{Title: &title})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestVisibility(t *testing.T) {
	s, db := newTestService(t)
	fx := seedFixture(t, db)
	otherLandlord := models.User{FirstName: "Hoa", Email: "o@x.com", Role: models.RoleLandlord}
	require.NoError(t, db.Create(&otherLandlord).Error)

	f, err := s.Create(fx.tenant, report(fx.room.ID))
	require.NoError(t, err)

	for _, actor := range []auth.Actor{fx.tenant, fx.landlord, fx.admin} {
		got, err := s.Get(actor, f.ID)
		require.NoError(t, err)
		assert.Equal(t, f.ID, got.ID)
	}

	_, err = s.Get(auth.Actor{ID: otherLandlord.ID, Role: models.RoleLandlord}, f.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	mine, err := s.List(fx.tenant)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := s.List(auth.Actor{ID: otherLandlord.ID, Role: models.RoleLandlord})
	require.NoError(t, err)
	assert.Len(t, none, 0)
}

func TestRemove(t *testing.T) {
	s, db := newTestService(t)
	fx := seedFixture(t, db)

	f, err := s.Create(fx.tenant, report(fx.room.ID))
	require.NoError(t, err)

	// The landlord moderates but does not delete.
	err = s.Remove(fx.landlord, f.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, s.Remove(fx.tenant, f.ID))

	var count int64
	db.Model(&models.Feedback{}).Count(&count)
	assert.Equal(t, int64(0), count)

	assert.True(t, apperr.IsKind(s.Remove(fx.admin, f.ID), apperr.KindNotFound))
}
