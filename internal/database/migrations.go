package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createCustomersTable,
		createStationsTable,
		createGamesTable,
		createBookingsTable,
		createMembershipCardsTable,
		createTransactionsTable,
		createTournamentsTable,
		createParticipantsTable,
		createNotificationsTable,
		createBookingSlotIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
    last_logged_in TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
    customer_id SERIAL PRIMARY KEY,
    user_id INTEGER REFERENCES users(user_id),
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    phone VARCHAR(20),
    balance DECIMAL(12,2) NOT NULL DEFAULT 0,
    hours_played NUMERIC(10, 2) NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (balance >= 0)
);`

const createStationsTable = `
CREATE TABLE IF NOT EXISTS stations (
    station_id SERIAL PRIMARY KEY,
    name VARCHAR(100) UNIQUE NOT NULL,
    type VARCHAR(20) NOT NULL,
    specifications TEXT,
    location VARCHAR(100),
    hourly_rate DECIMAL(10,2) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (hourly_rate >= 0),
    CHECK (type IN ('PC', 'CONSOLE', 'VR', 'RACING_SIM')),
    CHECK (status IN ('AVAILABLE', 'OCCUPIED', 'MAINTENANCE'))
);`

const createGamesTable = `
CREATE TABLE IF NOT EXISTS games (
    game_id SERIAL PRIMARY KEY,
    title VARCHAR(200) UNIQUE NOT NULL,
    genre VARCHAR(50),
    publisher VARCHAR(100),
    release_year INTEGER,
    min_age INTEGER NOT NULL DEFAULT 0,
    multiplayer BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    booking_id SERIAL PRIMARY KEY,
    customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
    station_id INTEGER NOT NULL REFERENCES stations(station_id),
    booking_date DATE NOT NULL,
    start_time TIME NOT NULL,
    end_time TIME NOT NULL,
    duration_hours DECIMAL(5,2) NOT NULL,
    total_amount DECIMAL(10,2) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'CONFIRMED',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (start_time < end_time),
    CHECK (status IN ('PENDING', 'CONFIRMED', 'ONGOING', 'COMPLETED', 'CANCELLED', 'NO_SHOW'))
);`

const createMembershipCardsTable = `
CREATE TABLE IF NOT EXISTS membership_cards (
    card_id SERIAL PRIMARY KEY,
    customer_id INTEGER UNIQUE NOT NULL REFERENCES customers(customer_id),
    card_number VARCHAR(20) UNIQUE NOT NULL,
    tier VARCHAR(20) NOT NULL,
    issue_date DATE NOT NULL,
    expiry_date DATE NOT NULL,
    points INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (tier IN ('BRONZE', 'SILVER', 'GOLD', 'PLATINUM'))
);`

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
    transaction_id SERIAL PRIMARY KEY,
    customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
    type VARCHAR(20) NOT NULL,
    amount DECIMAL(12,2) NOT NULL,
    method VARCHAR(20) NOT NULL,
    reference_id VARCHAR(64) UNIQUE NOT NULL,
    description TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (type IN ('DEPOSIT', 'BOOKING_PAYMENT', 'TOURNAMENT_FEE', 'REFUND', 'MEMBERSHIP_FEE')),
    CHECK (method IN ('CASH', 'CARD', 'MOBILE_MONEY', 'ACCOUNT_BALANCE'))
);`

const createTournamentsTable = `
CREATE TABLE IF NOT EXISTS tournaments (
    tournament_id SERIAL PRIMARY KEY,
    name VARCHAR(100) UNIQUE NOT NULL,
    game_id INTEGER NOT NULL REFERENCES games(game_id),
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    registration_deadline DATE NOT NULL,
    entry_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
    prize_pool DECIMAL(12,2) NOT NULL DEFAULT 0,
    max_participants INTEGER NOT NULL,
    current_participants INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'UPCOMING',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (current_participants >= 0 AND current_participants <= max_participants),
    CHECK (status IN ('UPCOMING', 'REGISTRATION_OPEN', 'ONGOING', 'COMPLETED', 'CANCELLED'))
);`

const createParticipantsTable = `
CREATE TABLE IF NOT EXISTS tournament_participants (
    participant_id SERIAL PRIMARY KEY,
    tournament_id INTEGER NOT NULL REFERENCES tournaments(tournament_id),
    customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
    team_name VARCHAR(100),
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(tournament_id, customer_id)
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    notification_id SERIAL PRIMARY KEY,
    customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
    kind VARCHAR(40) NOT NULL,
    message TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    sent_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingSlotIndex = `
CREATE INDEX IF NOT EXISTS bookings_station_date_idx
ON bookings (station_id, booking_date)
WHERE status IN ('PENDING', 'CONFIRMED', 'ONGOING');`
