package buildbusinessreport

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"
	"business-health-workers/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

const (
	historySQL = `SELECT id, business_id, raw_fields, metrics, health, created_at FROM business_snapshots`
	summarySQL = `FROM business_snapshots WHERE business_id = $1 AND created_at >= $2`
)

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewTestLogger(t)
	h := NewHandler(LoadConfig(), repository.NewPostgresRepository(db, log), log)
	h.now = func() time.Time { return testNow }
	return h, mock
}

func snapshotRow(t *testing.T, id string, revenue float64, overall int, at time.Time) []driver.Value {
	var p models.BusinessProfile
	p.SetName("Coffee Lab")
	p.SetNumber(models.FieldRevenue, revenue)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	m, err := json.Marshal(models.MetricsRecord{ProfitMargin: 5, LTVCACRatio: 1.5, SafetyMargin: 10, MonthsToBankruptcy: models.MonthsUnbounded})
	require.NoError(t, err)
	h, err := json.Marshal(models.HealthScores{Overall: overall, Tier: models.TierStable})
	require.NoError(t, err)

	return []driver.Value{id, "biz-1", raw, m, h, at}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	handler, mock := createTestHandler(t)

	rows := sqlmock.NewRows([]string{"id", "business_id", "raw_fields", "metrics", "health", "created_at"}).
		AddRow(snapshotRow(t, "snap-2", 600000, 62, testNow.AddDate(0, 0, -1))...).
		AddRow(snapshotRow(t, "snap-1", 500000, 50, testNow.AddDate(0, -1, 0))...)
	mock.ExpectQuery(regexp.QuoteMeta(historySQL)).
		WithArgs("biz-1", 10).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta(summarySQL)).
		WithArgs("biz-1", testNow.AddDate(0, 0, -90)).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "n"}).AddRow(550000.0, 30000.0, 56.0, int64(2)))

	out, err := handler.Execute(context.Background(), &Input{BusinessID: "biz-1"})

	require.NoError(t, err)
	assert.Equal(t, "snap-2", out.Latest.ID)
	assert.Len(t, out.History, 2)
	require.NotNil(t, out.Trend)
	assert.Equal(t, models.TrendUp, out.Trend.Direction)
	assert.Equal(t, 12, out.Trend.HealthChange)
	assert.InDelta(t, 20.0, out.Trend.RevenueChange, 1e-9)
	assert.Equal(t, 2, out.Period.SnapshotCount)
	assert.Len(t, out.Benchmarks, 3)

	codes := make([]string, 0, len(out.Recommendations))
	for _, r := range out.Recommendations {
		codes = append(codes, r.Code)
	}
	assert.Contains(t, codes, "RAISE_MARGIN")
	assert.Contains(t, codes, "IMPROVE_LTV_CAC")
	assert.Contains(t, codes, "BUILD_CASH_CUSHION")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SingleSnapshotHasNoTrend(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(historySQL)).
		WithArgs("biz-1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "business_id", "raw_fields", "metrics", "health", "created_at"}).
			AddRow(snapshotRow(t, "snap-1", 500000, 50, testNow)...))
	mock.ExpectQuery(regexp.QuoteMeta(summarySQL)).
		WithArgs("biz-1", testNow.AddDate(0, 0, -7)).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "n"}).AddRow(500000.0, 0.0, 50.0, int64(1)))

	out, err := handler.Execute(context.Background(), &Input{BusinessID: "biz-1", HistoryLimit: 3, PeriodDays: 7})

	require.NoError(t, err)
	assert.Nil(t, out.Trend)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		setup        func(mock sqlmock.Sqlmock)
		expectedCode errors.ErrorCode
	}{
		{
			name:         "missing business id",
			input:        &Input{},
			setup:        func(mock sqlmock.Sqlmock) {},
			expectedCode: errors.ErrCodeInvalidInput,
		},
		{
			name:  "no snapshots",
			input: &Input{BusinessID: "biz-404"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(historySQL)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "business_id", "raw_fields", "metrics", "health", "created_at"}))
			},
			expectedCode: errors.ErrCodeBusinessNotFound,
		},
		{
			name:  "history query fails",
			input: &Input{BusinessID: "biz-1"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(historySQL)).WillReturnError(stderrors.New("connection reset"))
			},
			expectedCode: errors.ErrCodeHistoryQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock := createTestHandler(t)
			tt.setup(mock)

			_, err := handler.Execute(context.Background(), tt.input)

			require.Error(t, err)
			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}
