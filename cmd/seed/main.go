package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"arcadia/internal/config"
	"arcadia/internal/database"
	"arcadia/internal/logger"
	"arcadia/internal/models"
	"arcadia/internal/repository"
)

// Seeds a development database with demo users, stations, games, customers
// and one upcoming tournament.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")
	log := logger.Get()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	repos := repository.NewRepositories(db)
	ctx := context.Background()

	users := []struct {
		email, password string
	}{
		{"admin@arcadia.local", "admin123"},
		{"operator@arcadia.local", "operator123"},
	}
	for _, u := range users {
		hash := sha256.Sum256([]byte(u.password))
		user := &models.User{
			Email:        u.email,
			PasswordHash: hex.EncodeToString(hash[:]),
			IsActive:     true,
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			log.Warn("Failed to create user, may already exist", "email", u.email, "error", err)
			continue
		}
		log.Info("Created user", "email", u.email)
	}

	stations := []models.GamingStation{
		{Name: "PC-01", Type: models.StationPC, Specifications: ptr("RTX 4080, 64GB RAM, 240Hz"), Location: ptr("Main hall, row A"), HourlyRate: decimal.NewFromInt(1500), Status: models.StationAvailable},
		{Name: "PC-02", Type: models.StationPC, Specifications: ptr("RTX 4080, 64GB RAM, 240Hz"), Location: ptr("Main hall, row A"), HourlyRate: decimal.NewFromInt(1500), Status: models.StationAvailable},
		{Name: "PC-03", Type: models.StationPC, Specifications: ptr("RTX 4070, 32GB RAM, 165Hz"), Location: ptr("Main hall, row B"), HourlyRate: decimal.NewFromInt(1200), Status: models.StationAvailable},
		{Name: "PS5-01", Type: models.StationConsole, Specifications: ptr("PlayStation 5, 65\" OLED"), Location: ptr("Console lounge"), HourlyRate: decimal.NewFromInt(2000), Status: models.StationAvailable},
		{Name: "PS5-02", Type: models.StationConsole, Specifications: ptr("PlayStation 5, 55\" QLED"), Location: ptr("Console lounge"), HourlyRate: decimal.NewFromInt(1800), Status: models.StationMaintenance},
		{Name: "VR-01", Type: models.StationVR, Specifications: ptr("Valve Index, 4x4m play area"), Location: ptr("VR room"), HourlyRate: decimal.NewFromInt(3000), Status: models.StationAvailable},
		{Name: "SIM-01", Type: models.StationRacingSim, Specifications: ptr("Triple screen, direct drive wheel"), Location: ptr("Racing corner"), HourlyRate: decimal.NewFromInt(2500), Status: models.StationAvailable},
	}
	for i := range stations {
		if err := repos.Stations.Create(ctx, &stations[i]); err != nil {
			log.Warn("Failed to create station", "name", stations[i].Name, "error", err)
			continue
		}
		log.Info("Created station", "name", stations[i].Name, "id", stations[i].StationID)
	}

	games := []models.Game{
		{Title: "Counter-Strike 2", Genre: ptr("FPS"), Publisher: ptr("Valve"), ReleaseYear: intPtr(2023), MinAge: 16, Multiplayer: true},
		{Title: "Dota 2", Genre: ptr("MOBA"), Publisher: ptr("Valve"), ReleaseYear: intPtr(2013), MinAge: 12, Multiplayer: true},
		{Title: "EA FC 25", Genre: ptr("Sports"), Publisher: ptr("EA"), ReleaseYear: intPtr(2024), MinAge: 3, Multiplayer: true},
		{Title: "Gran Turismo 7", Genre: ptr("Racing"), Publisher: ptr("Sony"), ReleaseYear: intPtr(2022), MinAge: 3, Multiplayer: true},
	}
	for i := range games {
		if err := repos.Games.Create(ctx, &games[i]); err != nil {
			log.Warn("Failed to create game", "title", games[i].Title, "error", err)
			continue
		}
		log.Info("Created game", "title", games[i].Title, "id", games[i].GameID)
	}

	customers := []struct {
		first, last string
		balance     int64
	}{
		{"Aibek", "Nurlanov", 20000},
		{"Dana", "Akhmetova", 15000},
		{"Timur", "Suleimenov", 5000},
	}
	for _, c := range customers {
		customer := &models.Customer{FirstName: c.first, LastName: c.last}
		if err := repos.Customers.Create(ctx, customer); err != nil {
			log.Warn("Failed to create customer", "name", c.first, "error", err)
			continue
		}
		ref := "TXN-" + uuid.New().String()
		if _, err := repos.Ledger.Deposit(ctx, customer.CustomerID, decimal.NewFromInt(c.balance), models.PayCash, ref); err != nil {
			log.Warn("Failed to seed balance", "customer_id", customer.CustomerID, "error", err)
		}
		log.Info("Created customer", "name", fmt.Sprintf("%s %s", c.first, c.last), "id", customer.CustomerID, "balance", c.balance)
	}

	if len(games) > 0 && games[0].GameID != 0 {
		start := time.Now().UTC().AddDate(0, 0, 14).Truncate(24 * time.Hour)
		tournament := &models.Tournament{
			Name:            "Arcadia Open: CS2 5v5",
			GameID:          games[0].GameID,
			StartDate:       start,
			EndDate:         start.AddDate(0, 0, 2),
			Deadline:        start.AddDate(0, 0, -3),
			EntryFee:        decimal.NewFromInt(2000),
			PrizePool:       decimal.NewFromInt(100000),
			MaxParticipants: 10,
			Status:          models.TournamentRegistrationOpen,
		}
		if err := repos.Tournaments.Create(ctx, tournament); err != nil {
			log.Warn("Failed to create tournament", "error", err)
		} else {
			log.Info("Created tournament", "name", tournament.Name, "id", tournament.TournamentID)
		}
	}

	log.Info("Seeding complete")
}

func ptr(s string) *string { return &s }
func intPtr(i int) *int    { return &i }
