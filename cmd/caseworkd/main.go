package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"

	"casework_platform/casework/schema"
	"casework_platform/casework/seed"
	"casework_platform/casework/services"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func initLogging(logPath string) *os.File {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		log.Panicf("error opening log file: %v", err)
	}

	log.SetFlags(log.Lshortfile | log.Ltime | log.Ldate)
	log.SetOutput(io.MultiWriter(logFile, os.Stderr))
	slog.SetDefault(slog.New(slog.NewTextHandler(io.MultiWriter(logFile, os.Stderr), nil)))
	slog.Info("logging initialized", "log_file", logFile.Name())

	return logFile
}

func initDb(dsn, sqlitePath string) *gorm.DB {
	var db *gorm.DB
	var err error
	if dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		log.Panicf("error opening database connection: %v", err)
	}

	err = db.AutoMigrate(schema.AllTables()...)
	if err != nil {
		log.Panicf("error migrating db schema: %v", err)
	}

	return db
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	dbPath := flag.String("db", envOr("CASEWORK_DB", "casework.db"), "The sqlite db to create/use when no postgres dsn is set")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres dsn, overrides the sqlite db when set")
	logPath := flag.String("log", envOr("CASEWORK_LOG", "caseworkd.log"), "The log file to append to")
	seedPath := flag.String("seed", os.Getenv("CASEWORK_SEED"), "Optional yaml fixture to load into an empty store")
	adminUsername := flag.String("admin-username", envOr("ADMIN_USERNAME", "admin"), "The bootstrap admin username")
	adminEmail := flag.String("admin-email", envOr("ADMIN_EMAIL", "admin@casework.local"), "The bootstrap admin email")
	adminPassword := flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "The bootstrap admin password")
	port := flag.Int("port", 3050, "The port to run on")

	flag.Parse()

	if *adminPassword == "" {
		log.Fatal("an admin password must be provided via -admin-password or ADMIN_PASSWORD")
	}

	logFile := initLogging(*logPath)
	defer logFile.Close()

	db := initDb(*dsn, *dbPath)

	if *seedPath != "" {
		fixture, err := seed.Load(*seedPath)
		if err != nil {
			log.Panicf("error loading seed fixture: %v", err)
		}
		if err := seed.Apply(db, fixture); err != nil {
			log.Panicf("error applying seed fixture: %v", err)
		}
	}

	platform := services.NewCaseworkPlatform(db)

	platform.InitAdmin(*adminUsername, *adminEmail, *adminPassword)

	r := chi.NewRouter()
	r.Mount("/api/v1", platform.Routes())

	slog.Info("starting server", "port", *port)
	err := http.ListenAndServe(fmt.Sprintf(":%d", *port), r)
	if err != nil {
		log.Fatal(err.Error())
	}
}
