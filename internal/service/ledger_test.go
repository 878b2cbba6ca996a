package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

func TestScoreLedger_ApplyDelta(t *testing.T) {
	teams := new(MockTeamRepository)
	ledger := NewScoreLedger(teams, new(MockSubmissionRepository), &fakeTx{})

	teams.On("AddPoints", mock.Anything, uint(1), -5).Return(nil).Once()
	require.NoError(t, ledger.ApplyDelta(nil, 1, -5))

	// Нулевая дельта не трогает хранилище
	require.NoError(t, ledger.ApplyDelta(nil, 1, 0))

	teams.On("AddPoints", mock.Anything, uint(9), 3).Return(apperrors.ErrNotFound).Once()
	err := ledger.ApplyDelta(nil, 9, 3)
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	teams.On("AddPoints", mock.Anything, uint(2), 1).Return(errors.New("db down")).Once()
	err = ledger.ApplyDelta(nil, 2, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInternal)

	teams.AssertExpectations(t)
}

func TestScoreLedger_Recalculate(t *testing.T) {
	teams := new(MockTeamRepository)
	subs := new(MockSubmissionRepository)
	ledger := NewScoreLedger(teams, subs, &fakeTx{})

	subs.On("SumEvaluatedPoints", mock.Anything).Return(map[uint]int{1: 25, 2: -5}, nil)
	teams.On("List").Return([]entity.Team{
		{ID: 1, Points: 25},
		{ID: 2, Points: 10},
		{ID: 3, Points: 4},
	}, nil)

	t.Run("dry run only reports", func(t *testing.T) {
		drifts, err := ledger.Recalculate(true)
		require.NoError(t, err)
		assert.Equal(t, []PointsDrift{
			{TeamID: 2, Stored: 10, Expected: -5},
			{TeamID: 3, Stored: 4, Expected: 0},
		}, drifts)
		teams.AssertNotCalled(t, "SetPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fixes drift", func(t *testing.T) {
		teams.On("SetPoints", mock.Anything, uint(2), -5).Return(nil).Once()
		teams.On("SetPoints", mock.Anything, uint(3), 0).Return(nil).Once()

		drifts, err := ledger.Recalculate(false)
		require.NoError(t, err)
		assert.Len(t, drifts, 2)
		teams.AssertExpectations(t)
	})
}
