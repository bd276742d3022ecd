package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/inventory-catalog/api"
	"github.com/rpupo63/inventory-catalog/catalog"
	"github.com/rpupo63/inventory-catalog/config"
	"github.com/rpupo63/inventory-catalog/database"
	"github.com/rpupo63/inventory-catalog/models"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}
	c := config.New()

	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := openDatabase(c, gormLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(db)
		return
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	service := catalog.NewService(database.New(db))
	if config.GetBool(c, "SEED_CATEGORIES", true) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := service.SeedCategories(ctx, models.DefaultCategories)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Error seeding categories")
		}
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(service, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// openDatabase connects to the store selected by DB_TYPE
func openDatabase(c map[string]string, gormLogger logger.Interface) (*gorm.DB, error) {
	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", "postgres"))
	log.Info().Str("dbType", dbType).Msg("connecting to database")

	switch dbType {
	case "postgres":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			dsn = database.PostgresDSN(
				config.GetString(c, "DB_HOST", "localhost"),
				config.GetString(c, "DB_USER", "postgres"),
				config.GetString(c, "DB_PASSWORD", ""),
				config.GetString(c, "DB_NAME", "inventory"),
				config.GetString(c, "DB_PORT", "5432"),
				config.GetString(c, "DB_SSLMODE", "disable"),
			)
		}
		return database.OpenPostgres(dsn, config.GetString(c, "DB_REPLICA_URL", ""), gormLogger)
	case "sqlite":
		return database.OpenSQLite(config.GetString(c, "SQLITE_PATH", "inventory.db"), gormLogger)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
