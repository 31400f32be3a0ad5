package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/interviewday-backend/internal/logger"
	"github.com/yungbote/interviewday-backend/internal/types"
	"github.com/yungbote/interviewday-backend/internal/utils"
)

type DatabaseService struct {
	db       *gorm.DB
	log      *logger.Logger
	postgres bool
}

// NewDatabaseService connects to Postgres when POSTGRES_HOST is set and
// falls back to a local sqlite file otherwise (dev mode).
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "", log)

	if postgresHost == "" {
		sqlitePath := utils.GetEnv("SQLITE_PATH", "interviewday.db", log)
		log.Info("POSTGRES_HOST not set, using sqlite", "path", sqlitePath)
		gdb, err := gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
		if err != nil {
			log.Error("Failed to open sqlite database", "error", err)
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		return &DatabaseService{db: gdb, log: serviceLog}, nil
	}

	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "interviewday", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to Postgres: %w", err)
	}
	return &DatabaseService{db: gdb, log: serviceLog, postgres: true}, nil
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(
		&types.SolveRun{},
		&types.ScheduleRow{},
	); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if !s.postgres {
		return nil
	}
	s.log.Info("Configuring foreign key relationships...")
	if err := s.db.Exec(`
		ALTER TABLE "schedule_row"
		DROP CONSTRAINT IF EXISTS "fk_schedule_row_solve_run_id"
	`).Error; err != nil {
		return err
	}
	if err := s.db.Exec(`
		ALTER TABLE "schedule_row"
		ADD CONSTRAINT "fk_schedule_row_solve_run_id"
		FOREIGN KEY ("solve_run_id")
		REFERENCES "solve_run"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		s.log.Error("Failed to add schedule_row foreign key", "error", err)
		return err
	}
	return nil
}
