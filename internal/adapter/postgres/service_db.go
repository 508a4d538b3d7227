package postgres

import (
	"context"
	"database/sql"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ServiceTypeRepository struct {
	db *sql.DB
}

func NewServiceTypeRepository(db *sql.DB) *ServiceTypeRepository {
	return &ServiceTypeRepository{db: db}
}

func (r *ServiceTypeRepository) CreateServiceType(ctx context.Context, serviceType *domain.ServiceType) (*domain.ServiceType, error) {
	query := `INSERT INTO service_types (id, name, description, default_interval_km, default_interval_months)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		serviceType.ID,
		serviceType.Name,
		serviceType.Description,
		serviceType.DefaultIntervalKm,
		serviceType.DefaultIntervalMonths,
	).Scan(
		&serviceType.ID,
		&serviceType.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return serviceType, nil
}

func (r *ServiceTypeRepository) GetServiceTypeByID(ctx context.Context, serviceTypeID uuid.UUID) (*domain.ServiceType, error) {
	query := `SELECT id, name, COALESCE(description, ''), default_interval_km, default_interval_months, created_at
		FROM service_types WHERE id = $1`

	serviceType := &domain.ServiceType{}
	var intervalKm, intervalMonths sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, serviceTypeID).Scan(
		&serviceType.ID,
		&serviceType.Name,
		&serviceType.Description,
		&intervalKm,
		&intervalMonths,
		&serviceType.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrServiceTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	if intervalKm.Valid {
		v := int(intervalKm.Int64)
		serviceType.DefaultIntervalKm = &v
	}
	if intervalMonths.Valid {
		v := int(intervalMonths.Int64)
		serviceType.DefaultIntervalMonths = &v
	}

	return serviceType, nil
}

func (r *ServiceTypeRepository) ListServiceTypes(ctx context.Context) ([]*domain.ServiceType, error) {
	query := `SELECT id, name, COALESCE(description, ''), default_interval_km, default_interval_months, created_at
		FROM service_types
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var serviceTypes []*domain.ServiceType
	for rows.Next() {
		serviceType := &domain.ServiceType{}
		var intervalKm, intervalMonths sql.NullInt64
		err := rows.Scan(
			&serviceType.ID,
			&serviceType.Name,
			&serviceType.Description,
			&intervalKm,
			&intervalMonths,
			&serviceType.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if intervalKm.Valid {
			v := int(intervalKm.Int64)
			serviceType.DefaultIntervalKm = &v
		}
		if intervalMonths.Valid {
			v := int(intervalMonths.Int64)
			serviceType.DefaultIntervalMonths = &v
		}
		serviceTypes = append(serviceTypes, serviceType)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return serviceTypes, nil
}

func (r *ServiceTypeRepository) UpdateServiceType(ctx context.Context, serviceType *domain.ServiceType) (*domain.ServiceType, error) {
	query := `UPDATE service_types
		SET name = $1, description = NULLIF($2, ''), default_interval_km = $3, default_interval_months = $4
		WHERE id = $5
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		serviceType.Name,
		serviceType.Description,
		serviceType.DefaultIntervalKm,
		serviceType.DefaultIntervalMonths,
		serviceType.ID,
	).Scan(&serviceType.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrServiceTypeNotFound
	}
	if err != nil {
		return nil, err
	}

	return serviceType, nil
}

func (r *ServiceTypeRepository) DeleteServiceType(ctx context.Context, serviceTypeID uuid.UUID) error {
	query := `DELETE FROM service_types WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, serviceTypeID)
	if err != nil {
		// Service events keep a RESTRICT reference to the type.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return domain.ErrServiceTypeInUse
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrServiceTypeNotFound
	}

	return nil
}

type ServiceEventRepository struct {
	db *sql.DB
}

func NewServiceEventRepository(db *sql.DB) *ServiceEventRepository {
	return &ServiceEventRepository{db: db}
}

func (r *ServiceEventRepository) CreateServiceEvent(ctx context.Context, event *domain.ServiceEvent) (*domain.ServiceEvent, error) {
	query := `INSERT INTO service_events (id, vehicle_id, service_type_id, event_date, mileage_at_service, notes)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, event_date, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID,
		event.VehicleID,
		event.ServiceTypeID,
		event.EventDate,
		event.MileageAtService,
		event.Notes,
	).Scan(
		&event.ID,
		&event.EventDate,
		&event.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "service_events_service_type_id_fkey" {
				return nil, domain.ErrServiceTypeNotFound
			}
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return event, nil
}

const serviceEventColumns = `id, vehicle_id, service_type_id, event_date, mileage_at_service, COALESCE(notes, ''), created_at`

func (r *ServiceEventRepository) GetServiceEventByID(ctx context.Context, eventID uuid.UUID) (*domain.ServiceEvent, error) {
	query := `SELECT ` + serviceEventColumns + ` FROM service_events WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, eventID))
}

func (r *ServiceEventRepository) GetServiceEventsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServiceEvent, error) {
	query := `SELECT ` + serviceEventColumns + `
		FROM service_events WHERE vehicle_id = $1
		ORDER BY event_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.ServiceEvent
	for rows.Next() {
		event := &domain.ServiceEvent{}
		err := rows.Scan(
			&event.ID,
			&event.VehicleID,
			&event.ServiceTypeID,
			&event.EventDate,
			&event.MileageAtService,
			&event.Notes,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// GetLastServiceEvent breaks same-day ties by the highest mileage, so the
// prediction baseline always moves forward.
func (r *ServiceEventRepository) GetLastServiceEvent(ctx context.Context, vehicleID, serviceTypeID uuid.UUID) (*domain.ServiceEvent, error) {
	query := `SELECT ` + serviceEventColumns + `
		FROM service_events
		WHERE vehicle_id = $1 AND service_type_id = $2
		ORDER BY event_date DESC, mileage_at_service DESC
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, vehicleID, serviceTypeID))
}

func (r *ServiceEventRepository) DeleteServiceEvent(ctx context.Context, eventID uuid.UUID) error {
	query := `DELETE FROM service_events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, eventID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrServiceEventNotFound
	}

	return nil
}

func (r *ServiceEventRepository) scanOne(row *sql.Row) (*domain.ServiceEvent, error) {
	event := &domain.ServiceEvent{}
	err := row.Scan(
		&event.ID,
		&event.VehicleID,
		&event.ServiceTypeID,
		&event.EventDate,
		&event.MileageAtService,
		&event.Notes,
		&event.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrServiceEventNotFound
	}
	if err != nil {
		return nil, err
	}

	return event, nil
}
