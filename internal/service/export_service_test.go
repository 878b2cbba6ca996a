package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	games := new(MockGameRepository)
	teams := new(MockTeamRepository)
	tasks := new(MockTaskRepository)
	subs := new(MockSubmissionRepository)
	reflections := new(MockReflectionRepository)

	game := testGame()
	game.Title = "Leadership  Day 2"
	game.StartTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	games.On("GetByID", testGameID).Return(game, nil)

	teams.On("ListByGame", testGameID).Return([]entity.Team{{
		ID: testTeamID, Name: "Alpha", Points: 10,
		Members: []entity.TeamMember{
			{UserID: 1, User: &entity.User{Username: "anna"}},
			{UserID: 2, User: &entity.User{Username: "bob"}},
		},
	}}, nil)
	tasks.On("ListByGame", testGameID).Return([]entity.Task{*mcTask(5)}, nil)
	subs.On("ListByGame", testGameID).Return([]entity.Submission{{
		ID: 1, TaskID: 5, TeamID: testTeamID, IsEvaluated: true,
		IsCorrect: boolPtr(true), PointsEarned: intPtr(10),
		SubmittedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}}, nil)
	reflections.On("ListByGame", testGameID).Return([]entity.Reflection{{
		TeamID: testTeamID, Question: "What, exactly?", Answer: "We said \"listen\"\nthen acted",
	}, {
		TeamID: 999, Question: "orphan", Answer: "skipped",
	}}, nil)

	return NewExportService(games, teams, tasks, subs, reflections)
}

func TestBuildGameExport_Authorization(t *testing.T) {
	svc := newExportFixture(t)
	_, err := svc.BuildGameExport(member, testGameID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGameExport_CSV(t *testing.T) {
	svc := newExportFixture(t)
	export, err := svc.BuildGameExport(instructor, testGameID)
	require.NoError(t, err)
	assert.Equal(t, "Leadership_Day_2_data.csv", export.Filename("csv"))

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf))
	body := strings.TrimPrefix(buf.String(), "\xEF\xBB\xBF")

	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	var names []string
	for _, r := range records {
		if len(r) == 1 && r[0] != "" {
			names = append(names, r[0])
		}
	}
	assert.Equal(t, []string{"Game Information", "Teams", "Tasks", "Submissions", "Reflections"}, names)

	assert.Contains(t, records, []string{"Title", "Leadership  Day 2"})
	assert.Contains(t, records, []string{"End Time", "N/A"})
	assert.Contains(t, records, []string{"Alpha", "anna, bob", "10"})
	assert.Contains(t, records, []string{"Alpha", "Leadership Quiz", "Yes", "Yes", "10", "2026-03-01T10:00:00Z"})
	assert.Contains(t, records, []string{"Alpha", "What, exactly?", "We said \"listen\"\nthen acted"})
	for _, r := range records {
		assert.NotContains(t, r, "orphan")
	}
}

func TestGameExport_XLSX(t *testing.T) {
	svc := newExportFixture(t)
	export, err := svc.BuildGameExport(admin, testGameID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Game Information", "Teams", "Tasks", "Submissions", "Reflections"}, f.GetSheetList())
	rows, err := f.GetRows("Teams")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Members", "Points"}, rows[0])
	assert.Equal(t, []string{"Alpha", "anna, bob", "10"}, rows[1])
}

func TestSanitizeForExcel(t *testing.T) {
	assert.Equal(t, "'=SUM(A1)", sanitizeForExcel("=SUM(A1)"))
	assert.Equal(t, "'@cmd", sanitizeForExcel("@cmd"))
	assert.Equal(t, "-5", sanitizeForExcel("-5"))
	assert.Equal(t, "", sanitizeForExcel(""))
}
