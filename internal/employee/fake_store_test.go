package employee_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-hrms/internal/authz"
	"go-hrms/internal/domain"
	"go-hrms/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore backs both the employee repository and the authz repository so
// the real rule engine sees the same rows the service mutates.
type fakeStore struct {
	mu          sync.Mutex
	rows        map[uuid.UUID]employee.Employee
	departments map[uuid.UUID]bool
	stats       employee.DashboardStats
	updateErr   error
	createErr   error
}

func newFakeStore(rows ...employee.Employee) *fakeStore {
	s := &fakeStore{
		rows:        make(map[uuid.UUID]employee.Employee),
		departments: make(map[uuid.UUID]bool),
	}
	for _, r := range rows {
		s.rows[r.ID] = r
	}
	return s
}

func (s *fakeStore) WithTx(tx *gorm.DB) employee.Repository { return s }

func (s *fakeStore) Create(ctx context.Context, empl *employee.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.rows[empl.ID] = *empl
	return nil
}

func (s *fakeStore) FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (s *fakeStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return s.FindByID(ctx, id)
}

func (s *fakeStore) FindAll(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []employee.Employee
	for _, e := range s.rows {
		if !filter.IncludeTerminated && e.Status == employee.StatusTerminated {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (s *fakeStore) FindByManager(ctx context.Context, managerID uuid.UUID) ([]employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []employee.Employee
	for _, e := range s.rows {
		if e.ManagerID != nil && *e.ManagerID == managerID && e.Status != employee.StatusTerminated {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (s *fakeStore) DepartmentIsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.departments[id], nil
}

func (s *fakeStore) Update(ctx context.Context, empl *employee.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.rows[empl.ID] = *empl
	return nil
}

func (s *fakeStore) DashboardStats(ctx context.Context, id uuid.UUID, from, to time.Time) (employee.DashboardStats, error) {
	return s.stats, nil
}

// authz.Repository

func (s *fakeStore) FindSubject(ctx context.Context, id uuid.UUID) (*authz.Subject, error) {
	e, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role, _ := domain.ParseRole(e.Role)
	return &authz.Subject{ID: e.ID, Role: role, ManagerID: e.ManagerID, Status: e.Status}, nil
}

func (s *fakeStore) FindManagerID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	e, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, nil
	}
	return e.ManagerID, nil
}

func newEmployee(first string, role domain.Role, manager *uuid.UUID) employee.Employee {
	return employee.Employee{
		ID:                 uuid.New(),
		EmployeeCode:       "EMP-" + first,
		FirstName:          first,
		LastName:           "Test",
		Email:              first + "@example.com",
		Role:               role.String(),
		Status:             employee.StatusActive,
		ManagerID:          manager,
		BasicSalary:        500000,
		LeaveBalanceAnnual: 21,
		JoiningDate:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func actorOf(e employee.Employee) domain.Actor {
	role, _ := domain.ParseRole(e.Role)
	return domain.Actor{ID: e.ID, Role: role}
}
