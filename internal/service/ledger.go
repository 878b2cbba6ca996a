package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// ScoreLedger применяет изменения очков к текущему счету команды.
// Очки меняются только через него.
type ScoreLedger struct {
	teamRepo       repository.TeamRepository
	submissionRepo repository.SubmissionRepository
	tx             TxManager
}

// NewScoreLedger создает новый журнал очков
func NewScoreLedger(teamRepo repository.TeamRepository, submissionRepo repository.SubmissionRepository, tx TxManager) *ScoreLedger {
	return &ScoreLedger{
		teamRepo:       teamRepo,
		submissionRepo: submissionRepo,
		tx:             tx,
	}
}

// ApplyDelta атомарно прибавляет delta к очкам команды (points = points + delta).
// Отсутствие команды - нарушение целостности, возвращается ErrInternal.
func (l *ScoreLedger) ApplyDelta(tx *gorm.DB, teamID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	if err := l.teamRepo.AddPoints(tx, teamID, delta); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: team %d missing while applying %+d points", apperrors.ErrInternal, teamID, delta)
		}
		return fmt.Errorf("failed to apply points to team %d: %w", teamID, err)
	}
	log.Debug().Str("component", "ScoreLedger").Uint("team_id", teamID).Int("delta", delta).Msg("points applied")
	return nil
}

// PointsDrift описывает расхождение счета команды с суммой оцененных отправок
type PointsDrift struct {
	TeamID   uint `json:"team_id"`
	Stored   int  `json:"stored"`
	Expected int  `json:"expected"`
}

// Recalculate пересчитывает очки всех команд из оцененных отправок.
// При dryRun только сообщает о расхождениях.
func (l *ScoreLedger) Recalculate(dryRun bool) ([]PointsDrift, error) {
	var drifts []PointsDrift
	err := l.tx.Transaction(func(tx *gorm.DB) error {
		sums, err := l.submissionRepo.SumEvaluatedPoints(tx)
		if err != nil {
			return err
		}
		teams, err := l.teamRepo.List()
		if err != nil {
			return err
		}
		for _, team := range teams {
			expected := sums[team.ID]
			if team.Points == expected {
				continue
			}
			drifts = append(drifts, PointsDrift{TeamID: team.ID, Stored: team.Points, Expected: expected})
			if dryRun {
				continue
			}
			if err := l.teamRepo.SetPoints(tx, team.ID, expected); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("component", "ScoreLedger").Int("drifts", len(drifts)).Bool("dry_run", dryRun).Msg("points recalculated")
	return drifts, nil
}
