package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/timeclock/internal/model"
)

var _employeeColumns = []string{"id", "created_at", "name", "passcode", "hourly_rate"}

type EmployeeDAO struct {
	Logger *slog.Logger
	*DB
}

func NewEmployeeDAO(logger *slog.Logger, db *DB) *EmployeeDAO {
	return &EmployeeDAO{
		Logger: logger.With("dao", "employee"),
		DB:     db,
	}
}

func (dao *EmployeeDAO) List(ctx context.Context) ([]model.Employee, error) {
	logger := dao.Logger.With("query", "list")

	query, args, err := dao.Builder.
		Select(_employeeColumns...).
		From("employees").
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return []model.Employee{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	employees := make([]model.Employee, 0)
	if err := dao.SelectContext(ctx, &employees, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Employee{}, err
	}

	logger.Debug("success query execute", "countEmployees", len(employees))

	return employees, nil
}

func (dao *EmployeeDAO) Get(ctx context.Context, id model.ID) (model.Employee, error) {
	return dao.getBy(ctx, "get", squirrel.Eq{"id": id})
}

func (dao *EmployeeDAO) GetByPasscode(ctx context.Context, passcode string) (model.Employee, error) {
	return dao.getBy(ctx, "getByPasscode", squirrel.Eq{"passcode": passcode})
}

func (dao *EmployeeDAO) getBy(ctx context.Context, name string, where squirrel.Eq) (model.Employee, error) {
	logger := dao.Logger.With("query", name)

	query, args, err := dao.Builder.
		Select(_employeeColumns...).
		From("employees").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Employee{}, err
	}

	logger.Debug("build query", "sql", query)

	var employee model.Employee
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&employee); err != nil {
		if IsNoRows(err) {
			return model.Employee{}, model.NewError("employee", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Employee{}, err
	}

	logger.Debug("success query execute", "employeeId", employee.ID)

	return employee, nil
}

type InsertEmployeeDTO struct {
	Name       string
	Passcode   string
	HourlyRate float64
}

func (dao *EmployeeDAO) Insert(ctx context.Context, dto InsertEmployeeDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("employees").
		Columns("name", "passcode", "hourly_rate").
		Values(dto.Name, dto.Passcode, dto.HourlyRate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		if IsUniqueViolation(err) {
			return 0, model.NewError("employee", model.ErrExists)
		}

		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}
