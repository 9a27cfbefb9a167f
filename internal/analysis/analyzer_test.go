package analysis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateProfile(ctx context.Context, ownerID, name string) (string, error) {
	args := m.Called(ctx, ownerID, name)
	return args.String(0), args.Error(1)
}

func (m *MockStore) AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) (string, error) {
	args := m.Called(ctx, snapshot)
	return args.String(0), args.Error(1)
}

func (m *MockStore) GetHistory(ctx context.Context, businessID string, limit int) ([]models.MetricsSnapshot, error) {
	args := m.Called(ctx, businessID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MetricsSnapshot), args.Error(1)
}

type MockPresenter struct {
	mock.Mock
}

func (m *MockPresenter) Present(ctx context.Context, result *Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func newTestAnalyzer(t *testing.T, store SnapshotStore, presenter Presenter) *Analyzer {
	a := NewAnalyzer(store, presenter, "", logger.NewTestLogger(t))
	a.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

// ==========================
// Analyzer Tests
// ==========================

func TestAnalyzer_NewBusiness(t *testing.T) {
	store := new(MockStore)
	presenter := new(MockPresenter)

	store.On("CreateProfile", mock.Anything, "owner-1", "Coffee Lab").Return("biz-1", nil)
	store.On("GetHistory", mock.Anything, "biz-1", 1).Return([]models.MetricsSnapshot{}, nil)
	store.On("AppendSnapshot", mock.Anything, mock.MatchedBy(func(s *models.MetricsSnapshot) bool {
		return s.BusinessID == "biz-1" && s.Health.Overall == 60
	})).Return("snap-1", nil)
	presenter.On("Present", mock.Anything, mock.AnythingOfType("*analysis.Result")).Return(nil)

	result, err := newTestAnalyzer(t, store, presenter).Analyze(context.Background(), "owner-1", "", referenceProfile())

	require.NoError(t, err)
	assert.Equal(t, "snap-1", result.Snapshot.ID)
	assert.Equal(t, "biz-1", result.Snapshot.BusinessID)
	assert.Equal(t, models.TierStable, result.Snapshot.Health.Tier)
	assert.Equal(t, "general", result.Category)
	assert.Len(t, result.Benchmarks, 3)
	assert.Nil(t, result.Trend)
	assert.Equal(t, 2026, result.Snapshot.CreatedAt.Year())

	store.AssertExpectations(t)
	presenter.AssertExpectations(t)
}

func TestAnalyzer_ExistingBusinessUsesPreviousSnapshot(t *testing.T) {
	store := new(MockStore)
	previous := models.MetricsSnapshot{
		ID:         "snap-0",
		BusinessID: "biz-1",
		Profile:    profileOf(map[models.Field]float64{models.FieldRevenue: 400000}),
		Health:     models.HealthScores{Overall: 55},
	}

	store.On("GetHistory", mock.Anything, "biz-1", 1).Return([]models.MetricsSnapshot{previous}, nil)
	store.On("AppendSnapshot", mock.Anything, mock.Anything).Return("snap-2", nil)

	result, err := newTestAnalyzer(t, store, nil).Analyze(context.Background(), "owner-1", "biz-1", referenceProfile())

	require.NoError(t, err)
	assert.InDelta(t, 25.0, result.Snapshot.Metrics.RevenueGrowthRate, 1e-9)
	assert.Equal(t, 70, result.Snapshot.Health.Overall)
	require.NotNil(t, result.Trend)
	assert.Equal(t, models.TrendUp, result.Trend.Direction)
	assert.Equal(t, 15, result.Trend.HealthChange)

	store.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzer_PresenterFailureIsNotFatal(t *testing.T) {
	store := new(MockStore)
	presenter := new(MockPresenter)

	store.On("GetHistory", mock.Anything, "biz-1", 1).Return(nil, nil)
	store.On("AppendSnapshot", mock.Anything, mock.Anything).Return("snap-1", nil)
	presenter.On("Present", mock.Anything, mock.Anything).Return(stderrors.New("sns down"))

	result, err := newTestAnalyzer(t, store, presenter).Analyze(context.Background(), "owner-1", "biz-1", referenceProfile())

	require.NoError(t, err)
	assert.Equal(t, "snap-1", result.Snapshot.ID)
}

func TestAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name         string
		businessID   string
		profile      models.BusinessProfile
		setup        func(s *MockStore)
		expectedCode errors.ErrorCode
	}{
		{
			name:         "missing required fields",
			businessID:   "biz-1",
			profile:      profileOf(map[models.Field]float64{models.FieldRevenue: 1000}),
			setup:        func(s *MockStore) {},
			expectedCode: errors.ErrCodeInsufficientData,
		},
		{
			name:    "create profile fails",
			profile: referenceProfile(),
			setup: func(s *MockStore) {
				s.On("CreateProfile", mock.Anything, "owner-1", "Coffee Lab").Return("", stderrors.New("conn refused"))
			},
			expectedCode: errors.ErrCodeSnapshotPersistFailed,
		},
		{
			name:       "history fails",
			businessID: "biz-1",
			profile:    referenceProfile(),
			setup: func(s *MockStore) {
				s.On("GetHistory", mock.Anything, "biz-1", 1).Return(nil, stderrors.New("timeout"))
			},
			expectedCode: errors.ErrCodeHistoryQueryFailed,
		},
		{
			name:       "append fails",
			businessID: "biz-1",
			profile:    referenceProfile(),
			setup: func(s *MockStore) {
				s.On("GetHistory", mock.Anything, "biz-1", 1).Return(nil, nil)
				s.On("AppendSnapshot", mock.Anything, mock.Anything).Return("", stderrors.New("disk full"))
			},
			expectedCode: errors.ErrCodeSnapshotPersistFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			tt.setup(store)

			_, err := newTestAnalyzer(t, store, nil).Analyze(context.Background(), "owner-1", tt.businessID, tt.profile)

			require.Error(t, err)
			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}
