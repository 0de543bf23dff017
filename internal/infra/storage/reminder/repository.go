package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/pkg/psqlbuilder"
	"github.com/m04kA/VideoBookingService/pkg/txmanager"
)

const table = "booking_reminders"

var columns = []string{
	"id",
	"booking_id",
	"offset_seconds",
	"scheduled_at",
	"status",
	"dispatched_at",
	"sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий расписания напоминаний
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория напоминаний
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch сохраняет набор напоминаний одним запросом
func (r *Repository) CreateBatch(ctx context.Context, entries []domain.ReminderEntry) error {
	if len(entries) == 0 {
		return nil
	}
	executor := txmanager.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(table).Columns(columns...)
	for _, e := range entries {
		insertBuilder = insertBuilder.Values(
			e.ID,
			e.BookingID,
			int64(e.Offset/time.Second),
			e.ScheduledAt,
			e.Status,
			nullTime(e.DispatchedAt),
			nullTime(e.SentAt),
			e.CreatedAt,
			e.UpdatedAt,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает напоминание по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ReminderEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanReminder(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReminderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reminder: %v", ErrScanRow, err)
	}
	return entry, nil
}

// ListByBooking возвращает все напоминания заявки, от ранних к поздним
func (r *Repository) ListByBooking(ctx context.Context, bookingID string) ([]domain.ReminderEntry, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("scheduled_at ASC", "id ASC")

	return r.list(ctx, "ListByBooking", selectBuilder)
}

// ListDue возвращает pending напоминания, время которых наступило и которые ещё не переданы диспетчеру
// Внутри транзакции строки блокируются с SKIP LOCKED, чтобы параллельные выгрузки не пересекались
func (r *Repository) ListDue(ctx context.Context, filter domain.DueRemindersFilter) ([]domain.ReminderEntry, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"status":        domain.ReminderPending,
			"dispatched_at": nil,
		}).
		Where(squirrel.LtOrEq{"scheduled_at": filter.Now}).
		OrderBy("scheduled_at ASC", "id ASC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	return r.list(ctx, "ListDue", selectBuilder)
}

// CancelPending отменяет перечисленные напоминания, если они ещё pending
// Возвращает число отменённых записей
func (r *Repository) CancelPending(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.ReminderCancelled).
		Set("updated_at", at).
		Where(squirrel.Eq{
			"id":     ids,
			"status": domain.ReminderPending,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelPending - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "CancelPending", query, args)
}

// MarkDispatched отмечает, что напоминания переданы диспетчеру; статус остается pending до подтверждения
func (r *Repository) MarkDispatched(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("dispatched_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{
			"id":     ids,
			"status": domain.ReminderPending,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkDispatched - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "MarkDispatched", query, args)
}

// MarkSent переводит напоминание pending -> sent по подтверждению доставки
func (r *Repository) MarkSent(ctx context.Context, id string, at time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.ReminderSent).
		Set("sent_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.ReminderPending,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkSent - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "MarkSent", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReminderNotPending
	}
	return nil
}

// ReleaseDispatch снимает отметку о передаче диспетчеру после сбоя доставки
// Напоминание остается pending и попадет в следующую выгрузку
func (r *Repository) ReleaseDispatch(ctx context.Context, id string, at time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("dispatched_at", nil).
		Set("updated_at", at).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.ReminderPending,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseDispatch - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "ReleaseDispatch", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReminderNotPending
	}
	return nil
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]domain.ReminderEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	entries := make([]domain.ReminderEntry, 0)
	for rows.Next() {
		entry, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return entries, nil
}

func (r *Repository) exec(ctx context.Context, executor txmanager.DBExecutor, op, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row rowScanner) (*domain.ReminderEntry, error) {
	var (
		entry         domain.ReminderEntry
		offsetSeconds int64
		dispatchedAt  sql.NullTime
		sentAt        sql.NullTime
	)

	err := row.Scan(
		&entry.ID,
		&entry.BookingID,
		&offsetSeconds,
		&entry.ScheduledAt,
		&entry.Status,
		&dispatchedAt,
		&sentAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Offset = time.Duration(offsetSeconds) * time.Second
	if dispatchedAt.Valid {
		entry.DispatchedAt = &dispatchedAt.Time
	}
	if sentAt.Valid {
		entry.SentAt = &sentAt.Time
	}
	return &entry, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
