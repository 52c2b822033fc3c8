package db

import (
	"fmt"

	"github.com/techagentng/mopcdash/config"
	"github.com/techagentng/mopcdash/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// GetDB connects to postgres and runs the migrations. It exits the process
// when either fails.
func GetDB(c *config.Config, log *zap.Logger) *GormDB {
	gormDB := &GormDB{Log: log}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c, g.Log)

	if err := migrate(g.DB); err != nil {
		g.Log.Fatal("unable to run migrations", zap.Error(err))
	}
}

// NewGormDB wraps an already opened connection and migrates it.
func NewGormDB(db *gorm.DB, log *zap.Logger) (*GormDB, error) {
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &GormDB{DB: db, Log: log}, nil
}

func getPostgresDB(c *config.Config, log *zap.Logger) *gorm.DB {
	log.Info("connecting to postgres",
		zap.String("host", c.PostgresHost),
		zap.Int("port", c.PostgresPort),
		zap.String("db", c.PostgresDB),
	)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=America/Santo_Domingo",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal("unable to connect to postgres", zap.Error(err))
	}

	return gormDB
}

// SeedUsers creates the initial administrator when no user with that
// username exists yet.
func SeedUsers(db *gorm.DB, username, password string) error {
	if password == "" {
		return nil
	}
	admin := models.User{
		Username: username,
		Name:     "Administrador",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	return db.Where(models.User{Username: username}).FirstOrCreate(&admin).Error
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.ReportRecord{},
		&models.PendingReport{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	return nil
}
