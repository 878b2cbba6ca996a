package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/middleware"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
	pgRepo "github.com/yourusername/leadership-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/leadership-api/internal/repository/redis"
	"github.com/yourusername/leadership-api/internal/service"
	"github.com/yourusername/leadership-api/internal/websocket"
	"github.com/yourusername/leadership-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testUploadLimit = 64 << 10

type testServer struct {
	router  *gin.Engine
	jwt     *auth.JWTService
	users   *pgRepo.UserRepo
	teams   *pgRepo.TeamRepo
	uploads string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	require.NoError(t, RegisterValidators())

	dsn := filepath.Join(t.TempDir(), "api.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.Game{}, &entity.Team{}, &entity.TeamMember{},
		&entity.Task{}, &entity.Submission{}, &entity.Reflection{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	jwtService, err := auth.NewJWTService("router-test-secret", 1)
	require.NoError(t, err)

	userRepo := pgRepo.NewUserRepo(db)
	gameRepo := pgRepo.NewGameRepo(db)
	teamRepo := pgRepo.NewTeamRepo(db)
	taskRepo := pgRepo.NewTaskRepo(db)
	submissionRepo := pgRepo.NewSubmissionRepo(db)
	reflectionRepo := pgRepo.NewReflectionRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	require.NoError(t, err)
	blacklist, err := redisRepo.NewTokenBlacklist(redisClient)
	require.NoError(t, err)

	hub := websocket.NewHub()
	scoreboard := service.NewScoreboardService(teamRepo, cacheRepo, hub)
	ledger := service.NewScoreLedger(teamRepo, submissionRepo, db)
	uploads := t.TempDir()
	media := service.NewLocalMediaStorage(uploads, "/uploads", testUploadLimit)

	authService := service.NewAuthService(userRepo, jwtService, blacklist)
	gameService := service.NewGameService(gameRepo, teamRepo, taskRepo, submissionRepo, reflectionRepo, scoreboard)
	teamService := service.NewTeamService(teamRepo, gameRepo, userRepo, submissionRepo, reflectionRepo, scoreboard)
	taskService := service.NewTaskService(db, taskRepo, gameRepo, submissionRepo, ledger, scoreboard)
	submissionService := service.NewSubmissionService(db, submissionRepo, taskRepo, teamRepo, gameRepo, ledger, scoreboard, media, nil)
	reflectionService := service.NewReflectionService(reflectionRepo, teamRepo, gameRepo)
	userService := service.NewUserService(userRepo, gameRepo, teamRepo, submissionRepo)
	exportService := service.NewExportService(gameRepo, teamRepo, taskRepo, submissionRepo, reflectionRepo)

	router := gin.New()
	RegisterRoutes(router, Handlers{
		Auth:       NewAuthHandler(authService),
		Game:       NewGameHandler(gameService),
		Team:       NewTeamHandler(teamService),
		Task:       NewTaskHandler(taskService),
		Submission: NewSubmissionHandler(submissionService, testUploadLimit),
		Reflection: NewReflectionHandler(reflectionService),
		Admin:      NewAdminHandler(userService, exportService, ledger),
		WS:         NewWSHandler(hub, gameService, []string{"*"}),
	}, middleware.NewAuthMiddleware(jwtService, blacklist), middleware.NewRateLimiter(redisClient))

	return &testServer{router: router, jwt: jwtService, users: userRepo, teams: teamRepo, uploads: uploads}
}

func (s *testServer) createUser(t *testing.T, username, role string) (*entity.User, string) {
	t.Helper()
	user := &entity.User{Username: username, Email: username + "@example.com", Password: "password1", Role: role}
	require.NoError(t, s.users.Create(user))
	token, _, err := s.jwt.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func idOf(t *testing.T, w *httptest.ResponseRecorder) uint {
	t.Helper()
	id, ok := decode(t, w)["id"].(float64)
	require.True(t, ok, "body: %s", w.Body.String())
	return uint(id)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "maria", "email": "Maria@Example.com", "password": "secret12", "role": "instructor",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	token := resp["token"].(string)
	assert.Equal(t, "maria@example.com", resp["user"].(map[string]interface{})["email"])
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "maria2", "email": "maria@example.com", "password": "secret12",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "root", "email": "root@example.com", "password": "secret12", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "maria@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_invalid", decode(t, w)["error_type"])

	w = s.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "instructor", decode(t, w)["role"])

	w = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGameplayFlow(t *testing.T) {
	s := newTestServer(t)
	_, instructorToken := s.createUser(t, "coach", entity.RoleInstructor)
	_, playerToken := s.createUser(t, "player", entity.RoleParticipant)
	_, outsiderToken := s.createUser(t, "outsider", entity.RoleParticipant)

	// Игра и задания
	w := s.do(t, http.MethodPost, "/api/games", instructorToken, map[string]interface{}{
		"title": "Leadership 101", "access_code": "LEAD1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	gameID := idOf(t, w)

	w = s.do(t, http.MethodPost, "/api/games", playerToken, map[string]interface{}{"title": "Nope", "access_code": "NOPE1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/tasks", instructorToken, map[string]interface{}{
		"title": "Core value", "game_id": gameID, "type": "multiple_choice",
		"options": []string{"Empathy", "Speed"}, "correct_answer": "Empathy",
		"reward_points": 10, "risk_points": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mcTaskID := idOf(t, w)

	w = s.do(t, http.MethodPost, "/api/tasks", instructorToken, map[string]interface{}{
		"title": "Describe a conflict", "game_id": gameID, "type": "text", "reward_points": 15, "risk_points": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	textTaskID := idOf(t, w)

	w = s.do(t, http.MethodPost, "/api/tasks", instructorToken, map[string]interface{}{
		"title": "Bad", "game_id": gameID, "type": "essay",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "task_type", decode(t, w)["details"].(map[string]interface{})["type"])

	// Участник скрывает правильный ответ
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", mcTaskID), playerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w), "correct_answer")

	// Вход в игру и команда
	w = s.do(t, http.MethodPost, "/api/games/join", playerToken, map[string]string{"access_code": "LEAD1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode(t, w)["team"])

	w = s.do(t, http.MethodPost, "/api/teams", playerToken, map[string]interface{}{"name": "Alpha", "game_id": gameID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	teamID := idOf(t, w)

	w = s.do(t, http.MethodPost, "/api/teams", playerToken, map[string]interface{}{"name": "Again", "game_id": gameID})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Автопроверка
	w = s.do(t, http.MethodPost, "/api/submissions", playerToken, map[string]interface{}{
		"task_id": mcTaskID, "team_id": teamID, "answer": "Empathy",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode(t, w)
	assert.Equal(t, true, sub["is_correct"])
	assert.Equal(t, float64(10), sub["points_earned"])

	w = s.do(t, http.MethodPost, "/api/submissions", playerToken, map[string]interface{}{
		"task_id": mcTaskID, "team_id": teamID, "answer": "Speed",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/submissions", outsiderToken, map[string]interface{}{
		"task_id": textTaskID, "team_id": teamID, "answer": "hijack",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Ручная оценка
	w = s.do(t, http.MethodPost, "/api/submissions", playerToken, map[string]interface{}{
		"task_id": textTaskID, "team_id": teamID, "answer": "We listened first",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pending := decode(t, w)
	assert.Equal(t, false, pending["is_evaluated"])
	assert.Nil(t, pending["points_earned"])
	textSubID := uint(pending["id"].(float64))

	w = s.do(t, http.MethodGet, "/api/submissions/pending", instructorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pendingList []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pendingList))
	require.Len(t, pendingList, 1)

	evaluate := func(body map[string]interface{}) {
		w := s.do(t, http.MethodPut, fmt.Sprintf("/api/submissions/%d/evaluate", textSubID), instructorToken, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	teamPoints := func() int {
		team, err := s.teams.GetByID(teamID)
		require.NoError(t, err)
		return team.Points
	}

	assert.Equal(t, 10, teamPoints())
	evaluate(map[string]interface{}{"is_correct": true, "points_earned": 15, "feedback": "Good"})
	assert.Equal(t, 25, teamPoints())
	evaluate(map[string]interface{}{"points_earned": 10})
	assert.Equal(t, 20, teamPoints())
	evaluate(map[string]interface{}{"points_earned": 10})
	assert.Equal(t, 20, teamPoints())

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/submissions/%d/evaluate", textSubID), playerToken, map[string]interface{}{"points_earned": 100})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Таблица результатов
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/games/%d/scoreboard", gameID), outsiderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	teams := decode(t, w)["teams"].([]interface{})
	require.Len(t, teams, 1)
	assert.Equal(t, float64(20), teams[0].(map[string]interface{})["points"])
	assert.Equal(t, float64(2), teams[0].(map[string]interface{})["completed_tasks"])

	// Рефлексия: создание, затем обновление
	reflection := map[string]interface{}{"game_id": gameID, "team_id": teamID, "question": "What worked?", "answer": "Trust"}
	w = s.do(t, http.MethodPost, "/api/reflections", playerToken, reflection)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reflection["answer"] = "Trust and clarity"
	w = s.do(t, http.MethodPost, "/api/reflections", playerToken, reflection)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Trust and clarity", decode(t, w)["answer"])

	// Данные игры доступны только автору
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/games/%d/submissions", gameID), instructorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/games/%d/submissions", gameID), playerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Экспорт
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/admin/export/games/%d", gameID), instructorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Leadership_101_data.csv")
	assert.Contains(t, w.Body.String(), "Describe a conflict")
	assert.Contains(t, w.Body.String(), "Trust and clarity")

	// Удаление задания снимает его очки
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", mcTaskID), instructorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 10, teamPoints())

	// Удаление игры каскадом
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/games/%d", gameID), instructorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", teamID), playerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVideoSubmission(t *testing.T) {
	s := newTestServer(t)
	_, instructorToken := s.createUser(t, "coach", entity.RoleInstructor)
	_, playerToken := s.createUser(t, "player", entity.RoleParticipant)

	w := s.do(t, http.MethodPost, "/api/games", instructorToken, map[string]interface{}{"title": "Video", "access_code": "VID01"})
	require.Equal(t, http.StatusCreated, w.Code)
	gameID := idOf(t, w)
	w = s.do(t, http.MethodPost, "/api/tasks", instructorToken, map[string]interface{}{"title": "Pitch", "game_id": gameID, "type": "video"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := idOf(t, w)
	w = s.do(t, http.MethodPost, "/api/teams", playerToken, map[string]interface{}{"name": "Alpha", "game_id": gameID})
	require.Equal(t, http.StatusCreated, w.Code)
	teamID := idOf(t, w)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("task_id", fmt.Sprint(taskID)))
	require.NoError(t, mw.WriteField("team_id", fmt.Sprint(teamID)))
	require.NoError(t, mw.WriteField("answer", "our pitch"))
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="pitch.MP4"`)
	header.Set("Content-Type", "video/mp4")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+playerToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode(t, rec)
	assert.Regexp(t, `^/uploads/[0-9a-f-]+\.mp4$`, resp["file_url"])
	assert.Equal(t, "our pitch", resp["answer"])
	assert.Equal(t, false, resp["is_evaluated"])
}

func TestVideoSubmissionRejectsOversizedBody(t *testing.T) {
	s := newTestServer(t)
	_, instructorToken := s.createUser(t, "coach", entity.RoleInstructor)
	_, playerToken := s.createUser(t, "player", entity.RoleParticipant)

	w := s.do(t, http.MethodPost, "/api/games", instructorToken, map[string]interface{}{"title": "Video", "access_code": "VID02"})
	require.Equal(t, http.StatusCreated, w.Code)
	gameID := idOf(t, w)
	w = s.do(t, http.MethodPost, "/api/tasks", instructorToken, map[string]interface{}{"title": "Pitch", "game_id": gameID, "type": "video"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := idOf(t, w)
	w = s.do(t, http.MethodPost, "/api/teams", playerToken, map[string]interface{}{"name": "Alpha", "game_id": gameID})
	require.Equal(t, http.StatusCreated, w.Code)
	teamID := idOf(t, w)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("task_id", fmt.Sprint(taskID)))
	require.NoError(t, mw.WriteField("team_id", fmt.Sprint(teamID)))
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="long.mp4"`)
	header.Set("Content-Type", "video/mp4")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x42}, testUploadLimit+multipartOverhead+1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	t.Run("declared length", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader(body.Bytes()))
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+playerToken)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
		assert.Equal(t, float64(testUploadLimit), decode(t, rec)["max_bytes"])
	})

	t.Run("unknown length", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader(body.Bytes()))
		req.ContentLength = -1
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+playerToken)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	})

	entries, err := os.ReadDir(s.uploads)
	require.NoError(t, err)
	assert.Empty(t, entries)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/teams/%d/submissions", teamID), playerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	assert.Empty(t, subs)
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	_, playerToken := s.createUser(t, "player", entity.RoleParticipant)
	_, adminToken := s.createUser(t, "root", entity.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/admin/stats", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/stats", playerToken, nil).Code)

	w := s.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["user_count"])

	w = s.do(t, http.MethodPost, "/api/admin/recalculate-points?dry_run=true", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["dry_run"])

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/games/abc", playerToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/games/42", playerToken, nil).Code)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: bad", apperrors.ErrInvalidCredential), http.StatusUnauthorized},
		{apperrors.ErrExpiredToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: nope", apperrors.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("task 1: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: already submitted", apperrors.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: empty", apperrors.ErrValidation), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("pq: secret detail"))
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestScoreboardTracksTeamsAndEvaluations(t *testing.T) {
	s := newTestServer(t)
	_, instructorToken := s.createUser(t, "coach", entity.RoleInstructor)
	_, firstToken := s.createUser(t, "first", entity.RoleParticipant)
	_, secondToken := s.createUser(t, "second", entity.RoleParticipant)
	third, _ := s.createUser(t, "third", entity.RoleParticipant)

	w := s.do(t, http.MethodPost, "/api/games", instructorToken, map[string]interface{}{
		"title": "Board", "access_code": "BOARD1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	gameID := idOf(t, w)

	w = s.do(t, http.MethodPost, "/api/tasks", instructorToken, map[string]interface{}{
		"title": "Essay", "game_id": gameID, "type": "text", "reward_points": 15,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	taskID := idOf(t, w)

	w = s.do(t, http.MethodPost, "/api/teams", firstToken, map[string]interface{}{"name": "A", "game_id": gameID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	board := func() map[string]map[string]interface{} {
		t.Helper()
		w := s.do(t, http.MethodGet, fmt.Sprintf("/api/games/%d/scoreboard", gameID), instructorToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		byName := map[string]map[string]interface{}{}
		for _, entry := range decode(t, w)["teams"].([]interface{}) {
			e := entry.(map[string]interface{})
			byName[e["name"].(string)] = e
		}
		return byName
	}

	// Прогреваем кеш с одной командой
	require.Len(t, board(), 1)

	w = s.do(t, http.MethodPost, "/api/teams", secondToken, map[string]interface{}{"name": "B", "game_id": gameID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	teamB := idOf(t, w)

	entries := board()
	require.Contains(t, entries, "B")
	assert.Equal(t, float64(1), entries["B"]["member_count"])

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/teams/%d/members", teamB), instructorToken, map[string]interface{}{"user_id": third.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), board()["B"]["member_count"])

	w = s.do(t, http.MethodPost, "/api/submissions", secondToken, map[string]interface{}{
		"task_id": taskID, "team_id": teamB, "answer": "We talked it through",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	subID := idOf(t, w)
	assert.Equal(t, float64(0), board()["B"]["completed_tasks"])

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/submissions/%d", subID), instructorToken, map[string]interface{}{"points_earned": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	entries = board()
	assert.Equal(t, float64(1), entries["B"]["completed_tasks"])
	assert.Equal(t, float64(0), entries["B"]["points"])

	w = s.do(t, http.MethodGet, "/api/teams/user", secondToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, float64(teamB), mine[0]["id"])
}
