package attendance

import (
	"context"
	"errors"
	"strings"

	"github.com/protomem/timeclock/internal/database"
	"github.com/protomem/timeclock/internal/model"
)

// Login resolves a passcode to its employee.
func (s *Service) Login(ctx context.Context, passcode string) (model.Employee, error) {
	passcode = strings.TrimSpace(passcode)
	if passcode == "" {
		return model.Employee{}, model.NewError("passcode", model.ErrInvalidInput)
	}

	employee, err := s.employees.GetByPasscode(ctx, passcode)
	if err != nil {
		return model.Employee{}, s.storeError("get by passcode", err)
	}

	return employee, nil
}

func (s *Service) AddEmployee(ctx context.Context, name, passcode string, hourlyRate float64) (model.Employee, error) {
	name, passcode = strings.TrimSpace(name), strings.TrimSpace(passcode)
	if name == "" || passcode == "" || hourlyRate < 0 {
		return model.Employee{}, model.NewError("employee", model.ErrInvalidInput)
	}

	id, err := s.employees.Insert(ctx, database.InsertEmployeeDTO{
		Name:       name,
		Passcode:   passcode,
		HourlyRate: hourlyRate,
	})
	if err != nil {
		if errors.Is(err, model.ErrExists) {
			return model.Employee{}, model.ErrDuplicateCredential
		}
		return model.Employee{}, s.storeError("insert employee", err)
	}

	employee, err := s.employees.Get(ctx, id)
	if err != nil {
		return model.Employee{}, s.storeError("get employee", err)
	}

	s.logger.Info("employee added", "employeeId", employee.ID, "name", employee.Name)

	return employee, nil
}

var _sampleEmployees = []database.InsertEmployeeDTO{
	{Name: "Anmol", Passcode: "1111", HourlyRate: 30.00},
	{Name: "Harshit", Passcode: "2222", HourlyRate: 25.50},
	{Name: "Shivani", Passcode: "3333", HourlyRate: 28.75},
	{Name: "Riya", Passcode: "4444", HourlyRate: 27.00},
}

// SeedSampleEmployees fills an empty directory with demo employees and
// reports how many were added.
func (s *Service) SeedSampleEmployees(ctx context.Context) (int, error) {
	existing, err := s.employees.List(ctx)
	if err != nil {
		return 0, s.storeError("list employees", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, dto := range _sampleEmployees {
		if _, err := s.employees.Insert(ctx, dto); err != nil {
			return 0, s.storeError("seed employee", err)
		}
	}

	s.logger.Info("inserted sample employees", "count", len(_sampleEmployees))

	return len(_sampleEmployees), nil
}
