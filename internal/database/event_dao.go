package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/timeclock/internal/model"
)

// local_date is a DATE column; cast it so it scans into a string.
var _eventColumns = []string{"id", "employee_id", "type", "employee_name", "at", "local_date::text AS local_date"}

// EventDAO is the append-only attendance log. It exposes no update or delete.
type EventDAO struct {
	Logger *slog.Logger
	*DB
}

func NewEventDAO(logger *slog.Logger, db *DB) *EventDAO {
	return &EventDAO{
		Logger: logger.With("dao", "event"),
		DB:     db,
	}
}

type AppendEventDTO struct {
	EmployeeID   model.ID
	Type         model.EventType
	EmployeeName string
	At           time.Time
	LocalDate    string

	// RequireIn makes the append conditional on an IN existing for the same
	// employee and LocalDate, checked in the same statement.
	RequireIn bool
}

func (dao *EventDAO) Append(ctx context.Context, dto AppendEventDTO) (model.AttendanceEvent, error) {
	logger := dao.Logger.With("query", "append")

	insert := dao.Builder.
		Insert("attendance_events").
		Columns("employee_id", "type", "employee_name", "at", "local_date")

	if dto.RequireIn {
		// Parameters in a SELECT list are untyped, hence the casts.
		sub := squirrel.
			Select().
			Column("?::bigint", dto.EmployeeID).
			Column("?::text", string(dto.Type)).
			Column("?::text", dto.EmployeeName).
			Column("?::timestamptz", dto.At.UTC()).
			Column("?::date", dto.LocalDate).
			Where(
				"EXISTS (SELECT 1 FROM attendance_events WHERE employee_id = ? AND type = ? AND local_date = ?::date)",
				dto.EmployeeID, string(model.EventIn), dto.LocalDate,
			)
		insert = insert.Select(sub)
	} else {
		insert = insert.Values(dto.EmployeeID, string(dto.Type), dto.EmployeeName, dto.At.UTC(), dto.LocalDate)
	}

	query, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return model.AttendanceEvent{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		switch {
		case IsNoRows(err):
			return model.AttendanceEvent{}, model.NewError("attendance", model.ErrNotClockedIn)
		case IsUniqueViolation(err):
			return model.AttendanceEvent{}, model.NewError("attendance", model.ErrExists)
		case IsForeignKeyViolation(err):
			return model.AttendanceEvent{}, model.NewError("employee", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.AttendanceEvent{}, err
	}

	logger.Debug("success query execute", "insertId", id)

	return model.AttendanceEvent{
		ID:           id,
		EmployeeID:   dto.EmployeeID,
		Type:         dto.Type,
		EmployeeName: dto.EmployeeName,
		At:           dto.At.UTC(),
		LocalDate:    dto.LocalDate,
	}, nil
}

// ExistsInRange reports whether employee has an event of typ with
// start <= at <= end.
func (dao *EventDAO) ExistsInRange(ctx context.Context, employee model.ID, typ model.EventType, start, end time.Time) (bool, error) {
	logger := dao.Logger.With("query", "existsInRange")

	query, args, err := dao.Builder.
		Select("1").
		From("attendance_events").
		Where(squirrel.Eq{"employee_id": employee, "type": string(typ)}).
		Where(squirrel.GtOrEq{"at": start.UTC()}).
		Where(squirrel.LtOrEq{"at": end.UTC()}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var one int
	if err := dao.QueryRowxContext(ctx, query, args...).Scan(&one); err != nil {
		if IsNoRows(err) {
			return false, nil
		}

		logger.Warn("failed query execute", "error", err)

		return false, err
	}

	return true, nil
}

func (dao *EventDAO) Latest(ctx context.Context, employee model.ID) (model.AttendanceEvent, error) {
	return dao.latest(ctx, "latest", squirrel.Eq{"employee_id": employee})
}

// LatestOfTypeAtOrBefore returns the most recent event of typ at or before at.
func (dao *EventDAO) LatestOfTypeAtOrBefore(ctx context.Context, employee model.ID, typ model.EventType, at time.Time) (model.AttendanceEvent, error) {
	return dao.latest(ctx, "latestOfTypeAtOrBefore", squirrel.And{
		squirrel.Eq{"employee_id": employee, "type": string(typ)},
		squirrel.LtOrEq{"at": at.UTC()},
	})
}

func (dao *EventDAO) latest(ctx context.Context, name string, where squirrel.Sqlizer) (model.AttendanceEvent, error) {
	logger := dao.Logger.With("query", name)

	query, args, err := dao.Builder.
		Select(_eventColumns...).
		From("attendance_events").
		Where(where).
		OrderBy("at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return model.AttendanceEvent{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var event model.AttendanceEvent
	if err := dao.QueryRowxContext(ctx, query, args...).StructScan(&event); err != nil {
		if IsNoRows(err) {
			return model.AttendanceEvent{}, model.NewError("attendance", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.AttendanceEvent{}, err
	}
	event.At = event.At.UTC()

	return event, nil
}

// AllOrdered returns every event of employee, oldest first.
func (dao *EventDAO) AllOrdered(ctx context.Context, employee model.ID) ([]model.AttendanceEvent, error) {
	return dao.list(ctx, "allOrdered", squirrel.Eq{"employee_id": employee}, "at ASC", "id ASC")
}

// ListAll returns the whole log ordered by employee, then time.
func (dao *EventDAO) ListAll(ctx context.Context) ([]model.AttendanceEvent, error) {
	return dao.list(ctx, "listAll", nil, "employee_id ASC", "at ASC", "id ASC")
}

func (dao *EventDAO) list(ctx context.Context, name string, where squirrel.Sqlizer, orderBy ...string) ([]model.AttendanceEvent, error) {
	logger := dao.Logger.With("query", name)

	builder := dao.Builder.
		Select(_eventColumns...).
		From("attendance_events").
		OrderBy(orderBy...)
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return []model.AttendanceEvent{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	events := make([]model.AttendanceEvent, 0)
	if err := dao.SelectContext(ctx, &events, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.AttendanceEvent{}, err
	}

	for i := range events {
		events[i].At = events[i].At.UTC()
	}

	logger.Debug("success query execute", "countEvents", len(events))

	return events, nil
}
