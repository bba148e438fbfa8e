package performance

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newRepoMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return NewRepository(db), mock
}

func TestRepository_ExistsForPeriod(t *testing.T) {
	repo, mock := newRepoMock(t)
	employeeID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "performance_reviews" WHERE employee_id = $1 AND quarter = $2 AND year = $3`)).
		WithArgs(employeeID, "Q2", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsForPeriod(context.Background(), employeeID, "Q2", 2025)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindAll_DecodesGoals(t *testing.T) {
	repo, mock := newRepoMock(t)
	employeeID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "employee_id", "quarter", "year", "goals", "technical_skills", "status"}).
		AddRow(uuid.NewString(), employeeID.String(), "Annual", 2024,
			[]byte(`[{"title":"Cut p95 latency","weight":50,"status":"exceeded","score":5}]`), 4, StatusCompleted)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "performance_reviews" WHERE employee_id IN ($1) AND year = $2 ORDER BY year DESC, period_start DESC`)).
		WithArgs(employeeID, 2024).
		WillReturnRows(rows)

	got, err := repo.FindAll(context.Background(), ListFilter{Year: 2024}, []uuid.UUID{employeeID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Goals, 1)
	assert.Equal(t, GoalExceeded, got[0].Goals[0].Status)
	require.NotNil(t, got[0].Competencies.TechnicalSkills)
	assert.Equal(t, 4, *got[0].Competencies.TechnicalSkills)
	assert.Nil(t, got[0].Competencies.Leadership)
	assert.NoError(t, mock.ExpectationsWereMet())
}
