package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

const scoreboardCacheTTL = 30 * time.Second

// ScoreboardPublisher рассылает обновленную таблицу результатов подписчикам игры
type ScoreboardPublisher interface {
	PublishScoreboard(gameID uint, entries []entity.ScoreboardEntry)
}

// ScoreboardService отдает таблицу результатов игры через кеш и рассылает ее изменения
type ScoreboardService struct {
	teamRepo  repository.TeamRepository
	cache     repository.CacheRepository
	publisher ScoreboardPublisher
}

// NewScoreboardService создает сервис таблицы результатов. cache и publisher могут быть nil.
func NewScoreboardService(teamRepo repository.TeamRepository, cache repository.CacheRepository, publisher ScoreboardPublisher) *ScoreboardService {
	return &ScoreboardService{
		teamRepo:  teamRepo,
		cache:     cache,
		publisher: publisher,
	}
}

func scoreboardCacheKey(gameID uint) string {
	return fmt.Sprintf("scoreboard:game:%d", gameID)
}

// Get возвращает таблицу результатов, по возможности из кеша
func (s *ScoreboardService) Get(gameID uint) ([]entity.ScoreboardEntry, error) {
	if s.cache != nil {
		var cached []entity.ScoreboardEntry
		err := s.cache.GetJSON(scoreboardCacheKey(gameID), &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Warn().Err(err).Str("component", "ScoreboardService").Uint("game_id", gameID).Msg("scoreboard cache read failed")
		}
	}

	entries, err := s.teamRepo.Scoreboard(gameID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entity.ScoreboardEntry{}
	}
	s.store(gameID, entries)
	return entries, nil
}

// Refresh сбрасывает кеш после изменения очков и рассылает свежую таблицу
func (s *ScoreboardService) Refresh(gameID uint) {
	if s.cache != nil {
		if err := s.cache.Delete(scoreboardCacheKey(gameID)); err != nil {
			log.Warn().Err(err).Str("component", "ScoreboardService").Uint("game_id", gameID).Msg("scoreboard cache invalidation failed")
		}
	}
	if s.publisher == nil {
		return
	}
	entries, err := s.Get(gameID)
	if err != nil {
		log.Error().Err(err).Str("component", "ScoreboardService").Uint("game_id", gameID).Msg("failed to load scoreboard for broadcast")
		return
	}
	s.publisher.PublishScoreboard(gameID, entries)
}

func (s *ScoreboardService) store(gameID uint, entries []entity.ScoreboardEntry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(scoreboardCacheKey(gameID), entries, scoreboardCacheTTL); err != nil {
		log.Warn().Err(err).Str("component", "ScoreboardService").Uint("game_id", gameID).Msg("scoreboard cache write failed")
	}
}
