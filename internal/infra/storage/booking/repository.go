package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/pkg/psqlbuilder"
	"github.com/m04kA/VideoBookingService/pkg/txmanager"
	"github.com/m04kA/VideoBookingService/pkg/types"
)

const table = "booking_requests"

var columns = []string{
	"id",
	"agent_id",
	"property_value_tier",
	"shoot_complexity",
	"is_urgent",
	"preferred_date",
	"backup_dates",
	"is_flexible",
	"address",
	"latitude",
	"longitude",
	"estimated_duration_minutes",
	"priority_score",
	"score_breakdown",
	"status",
	"review_flag",
	"manager_notes",
	"scheduled_date",
	"scheduled_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий заявок на съемку
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую заявку
// ID, CreatedAt и UpdatedAt выставляет вызывающий
func (r *Repository) Create(ctx context.Context, booking *domain.BookingRequest) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	breakdown, err := json.Marshal(booking.ScoreBreakdown)
	if err != nil {
		return fmt.Errorf("%w: Create: %v", ErrEncodeBreakdown, err)
	}

	lat, lng := nullCoordinates(booking.Coordinates)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns...).
		Values(
			booking.ID,
			booking.AgentID,
			booking.PropertyValueTier,
			booking.ShootComplexity,
			booking.IsUrgent,
			booking.PreferredDate,
			pq.Array(formatDates(booking.BackupDates)),
			booking.IsFlexible,
			booking.Address,
			lat,
			lng,
			booking.EstimatedDurationMinutes,
			booking.PriorityScore,
			string(breakdown),
			booking.Status,
			booking.ReviewFlag,
			nullString(booking.ManagerNotes),
			nullDate(booking.ScheduledDate),
			nullTimeString(booking.ScheduledTime),
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает заявку по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.BookingRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}
	return booking, nil
}

// ListByDay возвращает заявки одного дня съемки
// День съемки: назначенная дата, а до назначения - предпочтительная
// Порядок стабильный: время начала, время создания, ID
func (r *Repository) ListByDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.BookingRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Expr("COALESCE(scheduled_date, preferred_date) = ?", domain.DateOnly(filter.Date)))

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.
		OrderBy("scheduled_time ASC NULLS LAST", "created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.BookingRequest, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDay - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDay - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus сохраняет переход статуса с optimistic concurrency:
// строка обновляется, только если статус и updated_at не изменились с момента чтения
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.BookingRequest, expectedStatus domain.BookingStatus, expectedUpdatedAt time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", booking.Status).
		Set("review_flag", booking.ReviewFlag).
		Set("manager_notes", nullString(booking.ManagerNotes)).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{
			"id":         booking.ID,
			"status":     expectedStatus,
			"updated_at": expectedUpdatedAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, "UpdateStatus", booking.ID, query, args)
}

// UpdateSchedule сохраняет назначенные дату и время подтверждённой заявки
func (r *Repository) UpdateSchedule(ctx context.Context, booking *domain.BookingRequest, expectedUpdatedAt time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("scheduled_date", nullDate(booking.ScheduledDate)).
		Set("scheduled_time", nullTimeString(booking.ScheduledTime)).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{
			"id":         booking.ID,
			"status":     domain.StatusApproved,
			"updated_at": expectedUpdatedAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, executor, "UpdateSchedule", booking.ID, query, args)
}

// execGuarded выполняет условный UPDATE; 0 строк - заявку изменили параллельно
func (r *Repository) execGuarded(ctx context.Context, executor txmanager.DBExecutor, op, id, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return &domain.ConcurrentModificationError{BookingID: id}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.BookingRequest, error) {
	var (
		booking       domain.BookingRequest
		backupDates   pq.StringArray
		lat, lng      sql.NullFloat64
		breakdown     []byte
		managerNotes  sql.NullString
		scheduledDate sql.NullTime
		scheduledTime types.TimeString
	)

	err := row.Scan(
		&booking.ID,
		&booking.AgentID,
		&booking.PropertyValueTier,
		&booking.ShootComplexity,
		&booking.IsUrgent,
		&booking.PreferredDate,
		&backupDates,
		&booking.IsFlexible,
		&booking.Address,
		&lat,
		&lng,
		&booking.EstimatedDurationMinutes,
		&booking.PriorityScore,
		&breakdown,
		&booking.Status,
		&booking.ReviewFlag,
		&managerNotes,
		&scheduledDate,
		&scheduledTime,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.PreferredDate = asDate(booking.PreferredDate)
	if booking.BackupDates, err = parseDates(backupDates); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		booking.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &booking.ScoreBreakdown); err != nil {
			return nil, fmt.Errorf("decode score breakdown: %w", err)
		}
	}
	if managerNotes.Valid {
		booking.ManagerNotes = &managerNotes.String
	}
	if scheduledDate.Valid {
		day := asDate(scheduledDate.Time)
		booking.ScheduledDate = &day
	}
	if !scheduledTime.IsZero() {
		booking.ScheduledTime = &scheduledTime
	}

	return &booking, nil
}

// asDate приводит колонку DATE к полуночи UTC
func asDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(domain.DateFormat))
	}
	return out
}

func parseDates(raw []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, fmt.Errorf("parse backup date %q: %w", s, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func nullCoordinates(c *domain.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeString(ts *types.TimeString) sql.NullString {
	if ts == nil || ts.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: ts.String(), Valid: true}
}
