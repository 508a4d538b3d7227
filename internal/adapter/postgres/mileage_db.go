package postgres

import (
	"context"
	"database/sql"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type MileageRepository struct {
	db *sql.DB
}

func NewMileageRepository(db *sql.DB) *MileageRepository {
	return &MileageRepository{db: db}
}

func (r *MileageRepository) CreateMileageRecord(ctx context.Context, record *domain.MileageRecord) (*domain.MileageRecord, error) {
	query := `INSERT INTO mileage_records (id, vehicle_id, mileage, recorded_at, source, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, recorded_at, created_at`

	var recordedBy interface{}
	if record.RecordedBy != nil {
		recordedBy = *record.RecordedBy
	}

	err := r.db.QueryRowContext(ctx, query,
		record.ID,
		record.VehicleID,
		record.Mileage,
		record.RecordedAt,
		record.Source,
		recordedBy,
	).Scan(
		&record.ID,
		&record.RecordedAt,
		&record.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return record, nil
}

const mileageRecordColumns = `id, vehicle_id, mileage, recorded_at, source, recorded_by, created_at`

func (r *MileageRepository) GetMileageRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.MileageRecord, error) {
	query := `SELECT ` + mileageRecordColumns + ` FROM mileage_records WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, recordID))
}

func (r *MileageRepository) GetMileageRecordsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.MileageRecord, error) {
	query := `SELECT ` + mileageRecordColumns + `
		FROM mileage_records WHERE vehicle_id = $1
		ORDER BY recorded_at DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.MileageRecord
	for rows.Next() {
		record := &domain.MileageRecord{}
		var recordedBy uuid.NullUUID
		err := rows.Scan(
			&record.ID,
			&record.VehicleID,
			&record.Mileage,
			&record.RecordedAt,
			&record.Source,
			&recordedBy,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if recordedBy.Valid {
			record.RecordedBy = &recordedBy.UUID
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetLatestMileageRecord breaks recorded_at ties by insertion order.
func (r *MileageRepository) GetLatestMileageRecord(ctx context.Context, vehicleID uuid.UUID) (*domain.MileageRecord, error) {
	query := `SELECT ` + mileageRecordColumns + `
		FROM mileage_records WHERE vehicle_id = $1
		ORDER BY recorded_at DESC, created_at DESC
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, vehicleID))
}

func (r *MileageRepository) GetEarliestMileageRecord(ctx context.Context, vehicleID uuid.UUID) (*domain.MileageRecord, error) {
	query := `SELECT ` + mileageRecordColumns + `
		FROM mileage_records WHERE vehicle_id = $1
		ORDER BY recorded_at ASC, created_at ASC
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, vehicleID))
}

func (r *MileageRepository) UpdateMileageRecord(ctx context.Context, record *domain.MileageRecord) (*domain.MileageRecord, error) {
	query := `UPDATE mileage_records
		SET mileage = $1, recorded_at = $2, source = $3
		WHERE id = $4
		RETURNING ` + mileageRecordColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query,
		record.Mileage,
		record.RecordedAt,
		record.Source,
		record.ID,
	))
}

func (r *MileageRepository) DeleteMileageRecord(ctx context.Context, recordID uuid.UUID) error {
	query := `DELETE FROM mileage_records WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, recordID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrMileageRecordNotFound
	}

	return nil
}

func (r *MileageRepository) scanOne(row *sql.Row) (*domain.MileageRecord, error) {
	record := &domain.MileageRecord{}
	var recordedBy uuid.NullUUID
	err := row.Scan(
		&record.ID,
		&record.VehicleID,
		&record.Mileage,
		&record.RecordedAt,
		&record.Source,
		&recordedBy,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrMileageRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if recordedBy.Valid {
		record.RecordedBy = &recordedBy.UUID
	}

	return record, nil
}
