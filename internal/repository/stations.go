package repository

import (
	"context"
	"database/sql"

	"arcadia/internal/database"
	"arcadia/internal/models"
)

type StationRepository struct {
	db *database.DB
}

func NewStationRepository(db *database.DB) *StationRepository {
	return &StationRepository{db: db}
}

func (r *StationRepository) Create(ctx context.Context, station *models.GamingStation) error {
	query := `
		INSERT INTO stations (name, type, specifications, location, hourly_rate, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING station_id, created_at, updated_at`

	if station.Status == "" {
		station.Status = models.StationAvailable
	}

	err := r.db.QueryRowContext(ctx, query,
		station.Name,
		station.Type,
		station.Specifications,
		station.Location,
		station.HourlyRate,
		station.Status,
	).Scan(&station.StationID, &station.CreatedAt, &station.UpdatedAt)

	return err
}

func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.GamingStation, error) {
	station := &models.GamingStation{}
	query := `
		SELECT station_id, name, type, specifications, location, hourly_rate,
		       status, created_at, updated_at
		FROM stations
		WHERE station_id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&station.StationID,
		&station.Name,
		&station.Type,
		&station.Specifications,
		&station.Location,
		&station.HourlyRate,
		&station.Status,
		&station.CreatedAt,
		&station.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return station, err
}

func (r *StationRepository) List(ctx context.Context) ([]models.GamingStation, error) {
	var stations []models.GamingStation
	query := `
		SELECT station_id, name, type, specifications, location, hourly_rate,
		       status, created_at, updated_at
		FROM stations
		ORDER BY station_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var station models.GamingStation
		err := rows.Scan(
			&station.StationID,
			&station.Name,
			&station.Type,
			&station.Specifications,
			&station.Location,
			&station.HourlyRate,
			&station.Status,
			&station.CreatedAt,
			&station.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}

	return stations, rows.Err()
}

func (r *StationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE stations SET status = $1, updated_at = NOW() WHERE station_id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

func (r *StationRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM stations WHERE station_id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
