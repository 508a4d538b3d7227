package postgres

import (
	"context"
	"database/sql"

	"github.com/garageflow/garage_fleet_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PredictionRuleRepository struct {
	db *sql.DB
}

func NewPredictionRuleRepository(db *sql.DB) *PredictionRuleRepository {
	return &PredictionRuleRepository{db: db}
}

func (r *PredictionRuleRepository) CreatePredictionRule(ctx context.Context, rule *domain.PredictionRule) (*domain.PredictionRule, error) {
	query := `INSERT INTO prediction_rules (id, service_type_id, interval_km, interval_months, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		rule.ID,
		rule.ServiceTypeID,
		rule.IntervalKm,
		rule.IntervalMonths,
		rule.IsActive,
	).Scan(&rule.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return nil, domain.ErrActiveRuleExists
			case "23503":
				return nil, domain.ErrServiceTypeNotFound
			}
		}
		return nil, err
	}

	return rule, nil
}

const predictionRuleColumns = `id, service_type_id, interval_km, interval_months, is_active`

func (r *PredictionRuleRepository) GetPredictionRuleByID(ctx context.Context, ruleID uuid.UUID) (*domain.PredictionRule, error) {
	query := `SELECT ` + predictionRuleColumns + ` FROM prediction_rules WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, ruleID))
}

func (r *PredictionRuleRepository) GetActivePredictionRules(ctx context.Context) ([]*domain.PredictionRule, error) {
	query := `SELECT ` + predictionRuleColumns + ` FROM prediction_rules WHERE is_active ORDER BY interval_km ASC`
	return r.queryRules(ctx, query)
}

func (r *PredictionRuleRepository) ListPredictionRules(ctx context.Context) ([]*domain.PredictionRule, error) {
	query := `SELECT ` + predictionRuleColumns + ` FROM prediction_rules ORDER BY interval_km ASC`
	return r.queryRules(ctx, query)
}

func (r *PredictionRuleRepository) queryRules(ctx context.Context, query string, args ...interface{}) ([]*domain.PredictionRule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.PredictionRule
	for rows.Next() {
		rule := &domain.PredictionRule{}
		var intervalMonths sql.NullInt64
		err := rows.Scan(
			&rule.ID,
			&rule.ServiceTypeID,
			&rule.IntervalKm,
			&intervalMonths,
			&rule.IsActive,
		)
		if err != nil {
			return nil, err
		}
		if intervalMonths.Valid {
			v := int(intervalMonths.Int64)
			rule.IntervalMonths = &v
		}
		rules = append(rules, rule)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

func (r *PredictionRuleRepository) UpdatePredictionRule(ctx context.Context, rule *domain.PredictionRule) (*domain.PredictionRule, error) {
	query := `UPDATE prediction_rules
		SET interval_km = $1, interval_months = $2, is_active = $3
		WHERE id = $4
		RETURNING ` + predictionRuleColumns

	updated, err := r.scanOne(r.db.QueryRowContext(ctx, query,
		rule.IntervalKm,
		rule.IntervalMonths,
		rule.IsActive,
		rule.ID,
	))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, domain.ErrActiveRuleExists
		}
		return nil, err
	}

	return updated, nil
}

func (r *PredictionRuleRepository) DeletePredictionRule(ctx context.Context, ruleID uuid.UUID) error {
	query := `DELETE FROM prediction_rules WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, ruleID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrPredictionRuleNotFound
	}

	return nil
}

func (r *PredictionRuleRepository) scanOne(row *sql.Row) (*domain.PredictionRule, error) {
	rule := &domain.PredictionRule{}
	var intervalMonths sql.NullInt64
	err := row.Scan(
		&rule.ID,
		&rule.ServiceTypeID,
		&rule.IntervalKm,
		&intervalMonths,
		&rule.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPredictionRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	if intervalMonths.Valid {
		v := int(intervalMonths.Int64)
		rule.IntervalMonths = &v
	}

	return rule, nil
}

type ServicePredictionRepository struct {
	db *sql.DB
}

func NewServicePredictionRepository(db *sql.DB) *ServicePredictionRepository {
	return &ServicePredictionRepository{db: db}
}

// UpsertServicePrediction overwrites the single row per (vehicle, service
// type), keyed on the unique constraint.
func (r *ServicePredictionRepository) UpsertServicePrediction(ctx context.Context, prediction *domain.ServicePrediction) (*domain.ServicePrediction, error) {
	if prediction.ID == uuid.Nil {
		prediction.ID = uuid.New()
	}

	query := `INSERT INTO service_predictions
			(id, vehicle_id, service_type_id, predicted_due_date, predicted_due_mileage, prediction_source, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (vehicle_id, service_type_id) DO UPDATE SET
			predicted_due_date = EXCLUDED.predicted_due_date,
			predicted_due_mileage = EXCLUDED.predicted_due_mileage,
			prediction_source = EXCLUDED.prediction_source,
			generated_at = EXCLUDED.generated_at
		RETURNING id, generated_at`

	var dueDate interface{}
	if prediction.PredictedDueDate != nil {
		dueDate = *prediction.PredictedDueDate
	}
	var dueMileage interface{}
	if prediction.PredictedDueMileage != nil {
		dueMileage = *prediction.PredictedDueMileage
	}

	err := r.db.QueryRowContext(ctx, query,
		prediction.ID,
		prediction.VehicleID,
		prediction.ServiceTypeID,
		dueDate,
		dueMileage,
		prediction.Source,
		prediction.GeneratedAt,
	).Scan(
		&prediction.ID,
		&prediction.GeneratedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return prediction, nil
}

const servicePredictionColumns = `id, vehicle_id, service_type_id, predicted_due_date, predicted_due_mileage, prediction_source, generated_at`

func (r *ServicePredictionRepository) GetServicePrediction(ctx context.Context, vehicleID, serviceTypeID uuid.UUID) (*domain.ServicePrediction, error) {
	query := `SELECT ` + servicePredictionColumns + `
		FROM service_predictions
		WHERE vehicle_id = $1 AND service_type_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, vehicleID, serviceTypeID))
}

func (r *ServicePredictionRepository) GetServicePredictionsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServicePrediction, error) {
	query := `SELECT ` + servicePredictionColumns + `
		FROM service_predictions WHERE vehicle_id = $1
		ORDER BY predicted_due_date ASC NULLS LAST, predicted_due_mileage ASC NULLS LAST`
	return r.queryPredictions(ctx, query, vehicleID)
}

func (r *ServicePredictionRepository) ListServicePredictions(ctx context.Context) ([]*domain.ServicePrediction, error) {
	query := `SELECT ` + servicePredictionColumns + `
		FROM service_predictions
		ORDER BY vehicle_id, predicted_due_date ASC NULLS LAST, predicted_due_mileage ASC NULLS LAST`
	return r.queryPredictions(ctx, query)
}

func (r *ServicePredictionRepository) queryPredictions(ctx context.Context, query string, args ...interface{}) ([]*domain.ServicePrediction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []*domain.ServicePrediction
	for rows.Next() {
		prediction := &domain.ServicePrediction{}
		var dueDate sql.NullTime
		var dueMileage sql.NullInt64
		err := rows.Scan(
			&prediction.ID,
			&prediction.VehicleID,
			&prediction.ServiceTypeID,
			&dueDate,
			&dueMileage,
			&prediction.Source,
			&prediction.GeneratedAt,
		)
		if err != nil {
			return nil, err
		}
		if dueDate.Valid {
			prediction.PredictedDueDate = &dueDate.Time
		}
		if dueMileage.Valid {
			v := int(dueMileage.Int64)
			prediction.PredictedDueMileage = &v
		}
		predictions = append(predictions, prediction)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return predictions, nil
}

func (r *ServicePredictionRepository) scanOne(row *sql.Row) (*domain.ServicePrediction, error) {
	prediction := &domain.ServicePrediction{}
	var dueDate sql.NullTime
	var dueMileage sql.NullInt64
	err := row.Scan(
		&prediction.ID,
		&prediction.VehicleID,
		&prediction.ServiceTypeID,
		&dueDate,
		&dueMileage,
		&prediction.Source,
		&prediction.GeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPredictionNotFound
	}
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		prediction.PredictedDueDate = &dueDate.Time
	}
	if dueMileage.Valid {
		v := int(dueMileage.Int64)
		prediction.PredictedDueMileage = &v
	}

	return prediction, nil
}
