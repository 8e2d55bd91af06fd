package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/dbmetrics"
	"github.com/fitform/FitForm-OrderService/pkg/psqlbuilder"
)

var orderColumns = []string{
	"id",
	"customer_id",
	"order_type",
	"item_name",
	"clothing_type",
	"measurements",
	"notes",
	"status",
	"quotation_amount",
	"quotation_notes",
	"quotation_sent_at",
	"quotation_responded_at",
	"counter_offer_amount",
	"counter_offer_notes",
	"counter_offer_status",
	"counter_offer_sent_at",
	"cancellation_fee",
	"damage_fee_min",
	"damage_fee_max",
	"total_penalties",
	"penalty_status",
	"penalty_notes",
	"penalty_calculated_at",
	"penalty_paid_at",
	"agreement_accepted",
	"created_at",
	"updated_at",
}

// Filter фильтр выборки заказов
type Filter struct {
	CustomerID *int64
	Type       *domain.OrderType
	Status     *domain.OrderStatus
}

// Repository репозиторий для работы с заказами (аренда и пошив в одной таблице)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый заказ
func (r *Repository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	measurements, err := marshalMeasurements(o.Measurements)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("orders").
		Columns(
			"customer_id",
			"order_type",
			"item_name",
			"clothing_type",
			"measurements",
			"notes",
			"status",
			"counter_offer_status",
			"cancellation_fee",
			"damage_fee_min",
			"penalty_status",
		).
		Values(
			o.CustomerID,
			o.Type,
			o.ItemName,
			o.ClothingType,
			measurements,
			o.Notes,
			o.Status,
			o.CounterOfferStatus,
			o.CancellationFee,
			o.DamageFeeMin,
			o.PenaltyStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&o.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// GetByID получает заказ по ID
// Внутри транзакции блокирует строку (FOR UPDATE): переходы читают,
// проверяют precondition и пишут под одной блокировкой
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	o, err := scanOrder(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan order: %v", ErrScanRow, err)
	}

	return o, nil
}

// List получает заказы с фильтрацией по клиенту, типу и статусу
func (r *Repository) List(ctx context.Context, filter Filter) ([]*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC, id DESC")

	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Type != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"order_type": *filter.Type})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Update сохраняет все изменяемые поля заказа
// Вызывается только с заказом, прошедшим через функции переходов
func (r *Repository) Update(ctx context.Context, o *domain.Order) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("status", o.Status).
		Set("quotation_amount", o.QuotationAmount).
		Set("quotation_notes", o.QuotationNotes).
		Set("quotation_sent_at", o.QuotationSentAt).
		Set("quotation_responded_at", o.QuotationRespondedAt).
		Set("counter_offer_amount", o.CounterOfferAmount).
		Set("counter_offer_notes", o.CounterOfferNotes).
		Set("counter_offer_status", o.CounterOfferStatus).
		Set("counter_offer_sent_at", o.CounterOfferSentAt).
		Set("damage_fee_max", o.DamageFeeMax).
		Set("total_penalties", o.TotalPenalties).
		Set("penalty_status", o.PenaltyStatus).
		Set("penalty_notes", o.PenaltyNotes).
		Set("penalty_calculated_at", o.PenaltyCalculatedAt).
		Set("penalty_paid_at", o.PenaltyPaidAt).
		Set("agreement_accepted", o.AgreementAccepted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var measurements []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Type,
		&o.ItemName,
		&o.ClothingType,
		&measurements,
		&o.Notes,
		&o.Status,
		&o.QuotationAmount,
		&o.QuotationNotes,
		&o.QuotationSentAt,
		&o.QuotationRespondedAt,
		&o.CounterOfferAmount,
		&o.CounterOfferNotes,
		&o.CounterOfferStatus,
		&o.CounterOfferSentAt,
		&o.CancellationFee,
		&o.DamageFeeMin,
		&o.DamageFeeMax,
		&o.TotalPenalties,
		&o.PenaltyStatus,
		&o.PenaltyNotes,
		&o.PenaltyCalculatedAt,
		&o.PenaltyPaidAt,
		&o.AgreementAccepted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(measurements) > 0 {
		if err := json.Unmarshal(measurements, &o.Measurements); err != nil {
			return nil, fmt.Errorf("%w: unmarshal measurements: %v", ErrScanRow, err)
		}
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time
	return &o, nil
}

// scanOrders сканирует результаты запроса в слайс заказов
func scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0)

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanOrders - scan row: %v", ErrScanRow, err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanOrders - rows error: %v", ErrScanRow, err)
	}

	return orders, nil
}

func marshalMeasurements(m map[string]float64) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshal, err)
	}
	return data, nil
}
