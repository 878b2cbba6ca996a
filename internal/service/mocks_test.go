package service

import (
	"context"
	"database/sql"
	"mime/multipart"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев
// ============================================================================

// fakeTx выполняет функцию без настоящей транзакции; откат не моделируется
type fakeTx struct {
	calls int
}

func (f *fakeTx) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	f.calls++
	return fc(nil)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepository) List() ([]entity.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByRole(role string) (int64, error) {
	args := m.Called(role)
	return args.Get(0).(int64), args.Error(1)
}

type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(game *entity.Game) error {
	args := m.Called(game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(id uint) (*entity.Game, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (m *MockGameRepository) GetByAccessCode(code string) (*entity.Game, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (m *MockGameRepository) UpdateFields(gameID uint, updates map[string]interface{}) error {
	args := m.Called(gameID, updates)
	return args.Error(0)
}

func (m *MockGameRepository) List() ([]entity.Game, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Game), args.Error(1)
}

func (m *MockGameRepository) ListByCreator(userID uint) ([]entity.Game, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Game), args.Error(1)
}

func (m *MockGameRepository) Stats(gameIDs []uint) (map[uint]entity.GameStats, error) {
	args := m.Called(gameIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]entity.GameStats), args.Error(1)
}

func (m *MockGameRepository) DeleteCascade(gameID uint) error {
	args := m.Called(gameID)
	return args.Error(0)
}

func (m *MockGameRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGameRepository) CountActive() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) CreateWithMember(team *entity.Team, userID uint) error {
	args := m.Called(team, userID)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(id uint) (*entity.Team, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Team), args.Error(1)
}

func (m *MockTeamRepository) List() ([]entity.Team, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByGame(gameID uint) ([]entity.Team, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByUser(userID uint) ([]entity.Team, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Team), args.Error(1)
}

func (m *MockTeamRepository) FindMembership(gameID, userID uint) (*entity.TeamMember, error) {
	args := m.Called(gameID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) AddMember(member *entity.TeamMember) error {
	args := m.Called(member)
	return args.Error(0)
}

func (m *MockTeamRepository) IsMember(teamID, userID uint) (bool, error) {
	args := m.Called(teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamRepository) AddPoints(tx *gorm.DB, teamID uint, delta int) error {
	args := m.Called(tx, teamID, delta)
	return args.Error(0)
}

func (m *MockTeamRepository) SetPoints(tx *gorm.DB, teamID uint, points int) error {
	args := m.Called(tx, teamID, points)
	return args.Error(0)
}

func (m *MockTeamRepository) Scoreboard(gameID uint) ([]entity.ScoreboardEntry, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ScoreboardEntry), args.Error(1)
}

func (m *MockTeamRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(task *entity.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(id uint) (*entity.Task, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(task *entity.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockTaskRepository) List() ([]entity.Task, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByGame(gameID uint) ([]entity.Task, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(tx *gorm.DB, taskID uint) error {
	args := m.Called(tx, taskID)
	return args.Error(0)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(tx *gorm.DB, submission *entity.Submission) error {
	args := m.Called(tx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(id uint) (*entity.Submission, error) {
	args := m.Called(id)
	if fn, ok := args.Get(0).(func(uint) *entity.Submission); ok {
		return fn(id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetForUpdate(tx *gorm.DB, id uint) (*entity.Submission, error) {
	args := m.Called(tx, id)
	if fn, ok := args.Get(0).(func(*gorm.DB, uint) *entity.Submission); ok {
		return fn(tx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Update(tx *gorm.DB, submission *entity.Submission) error {
	args := m.Called(tx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ExistsForTaskAndTeam(taskID, teamID uint) (bool, error) {
	args := m.Called(taskID, teamID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) List() ([]entity.Submission, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListPending(creatorID uint) ([]entity.Submission, error) {
	args := m.Called(creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByTeam(teamID uint) ([]entity.Submission, error) {
	args := m.Called(teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByGame(gameID uint) ([]entity.Submission, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByTask(tx *gorm.DB, taskID uint) ([]entity.Submission, error) {
	args := m.Called(tx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) DeleteByTask(tx *gorm.DB, taskID uint) error {
	args := m.Called(tx, taskID)
	return args.Error(0)
}

func (m *MockSubmissionRepository) SumEvaluatedPoints(tx *gorm.DB) (map[uint]int, error) {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int), args.Error(1)
}

func (m *MockSubmissionRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) CountPending() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockReflectionRepository struct {
	mock.Mock
}

func (m *MockReflectionRepository) Upsert(reflection *entity.Reflection) (bool, error) {
	args := m.Called(reflection)
	return args.Bool(0), args.Error(1)
}

func (m *MockReflectionRepository) GetByID(id uint) (*entity.Reflection, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reflection), args.Error(1)
}

func (m *MockReflectionRepository) UpdateAnswer(id uint, answer string) error {
	args := m.Called(id, answer)
	return args.Error(0)
}

func (m *MockReflectionRepository) List() ([]entity.Reflection, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reflection), args.Error(1)
}

func (m *MockReflectionRepository) ListByTeam(teamID uint) ([]entity.Reflection, error) {
	args := m.Called(teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reflection), args.Error(1)
}

func (m *MockReflectionRepository) ListByGame(gameID uint) ([]entity.Reflection, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reflection), args.Error(1)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) Revoke(tokenID string, ttl time.Duration) error {
	args := m.Called(tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsRevoked(tokenID string) (bool, error) {
	args := m.Called(tokenID)
	return args.Bool(0), args.Error(1)
}

// ============================================================================
// Моки внешних сервисов
// ============================================================================

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(user *entity.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) NotifyPendingSubmission(ctx context.Context, toEmail string, notice PendingSubmissionNotice) error {
	args := m.Called(ctx, toEmail, notice)
	return args.Error(0)
}

type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) Save(file *multipart.FileHeader) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStorage) Remove(url string) error {
	args := m.Called(url)
	return args.Error(0)
}

type recordingPublisher struct {
	games []uint
}

func (p *recordingPublisher) PublishScoreboard(gameID uint, entries []entity.ScoreboardEntry) {
	p.games = append(p.games, gameID)
}
