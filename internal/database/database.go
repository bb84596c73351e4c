package database

import (
	"fmt"
	"time"

	"rental-portal/internal/config"
	"rental-portal/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm connection.
type DB struct {
	db *gorm.DB
}

// New opens a connection for the configured database type. MySQL is the
// default; PostgreSQL is selected with type "postgres".
func New(cfg config.DatabaseConfig) (*DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "postgres":
		pg := cfg.Postgres
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			pg.Host, pg.Port, pg.User, pg.Password, pg.Database, pg.SSLMode)
		dialector = postgres.Open(dsn)
	default:
		my := cfg.MySQL
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			my.User, my.Password, my.Host, my.Port, my.Database)
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &DB{db: db}, nil
}

// NewFromDB wraps an existing gorm.DB instance (used by tests).
func NewFromDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

// DB returns the underlying gorm.DB instance
func (d *DB) DB() *gorm.DB {
	return d.db
}

func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (d *DB) InitSchema() error {
	return AutoMigrate(d.db)
}

// AutoMigrate creates the full schema on the given connection.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Motel{},
		&models.Room{},
		&models.Contract{},
		&models.ContractRequest{},
		&models.Bill{},
		&models.Notification{},
		&models.ContractEvent{},
		&models.CleanupLog{},
		&models.Feedback{},
	)
}
