package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/domain/repository"
)

// ExportSection - именованная таблица выгрузки
type ExportSection struct {
	Name   string
	Header []string
	Rows   [][]string
}

// GameExport - все данные игры, подготовленные для выгрузки
type GameExport struct {
	Game     *entity.Game
	Sections []ExportSection
}

// ExportService выгружает данные игры в CSV и XLSX
type ExportService struct {
	gameRepo       repository.GameRepository
	teamRepo       repository.TeamRepository
	taskRepo       repository.TaskRepository
	submissionRepo repository.SubmissionRepository
	reflectionRepo repository.ReflectionRepository
}

// NewExportService создает новый сервис выгрузки
func NewExportService(
	gameRepo repository.GameRepository,
	teamRepo repository.TeamRepository,
	taskRepo repository.TaskRepository,
	submissionRepo repository.SubmissionRepository,
	reflectionRepo repository.ReflectionRepository,
) *ExportService {
	return &ExportService{
		gameRepo:       gameRepo,
		teamRepo:       teamRepo,
		taskRepo:       taskRepo,
		submissionRepo: submissionRepo,
		reflectionRepo: reflectionRepo,
	}
}

// BuildGameExport собирает данные игры (автор игры или администратор)
func (s *ExportService) BuildGameExport(caller Caller, gameID uint) (*GameExport, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", gameID, err)
	}
	if err := Authorize(caller, ActionManageGame, Resource{OwnerID: game.CreatedBy}); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByGame(game.ID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByGame(game.ID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissionRepo.ListByGame(game.ID)
	if err != nil {
		return nil, err
	}
	reflections, err := s.reflectionRepo.ListByGame(game.ID)
	if err != nil {
		return nil, err
	}

	teamNames := make(map[uint]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}
	taskTitles := make(map[uint]string, len(tasks))
	for _, t := range tasks {
		taskTitles[t.ID] = t.Title
	}

	export := &GameExport{Game: game}
	export.Sections = append(export.Sections,
		gameInfoSection(game),
		teamsSection(teams),
		tasksSection(tasks),
		submissionsSection(submissions, teamNames, taskTitles),
		reflectionsSection(reflections, teamNames),
	)

	log.Info().Str("component", "ExportService").Uint("game_id", game.ID).Uint("user_id", caller.UserID).Msg("game export built")
	return export, nil
}

func gameInfoSection(game *entity.Game) ExportSection {
	createdBy := ""
	if game.Creator != nil {
		createdBy = game.Creator.Username
	}
	endTime := "N/A"
	if game.EndTime != nil {
		endTime = game.EndTime.Format(time.RFC3339)
	}
	return ExportSection{
		Name: "Game Information",
		Rows: [][]string{
			{"Title", game.Title},
			{"Access Code", game.AccessCode},
			{"Created By", createdBy},
			{"Start Time", game.StartTime.Format(time.RFC3339)},
			{"End Time", endTime},
			{"Active", yesNo(game.IsActive)},
		},
	}
}

func teamsSection(teams []entity.Team) ExportSection {
	section := ExportSection{Name: "Teams", Header: []string{"Name", "Members", "Points"}}
	for _, t := range teams {
		names := make([]string, 0, len(t.Members))
		for _, m := range t.Members {
			if m.User != nil {
				names = append(names, m.User.Username)
			}
		}
		section.Rows = append(section.Rows, []string{t.Name, strings.Join(names, ", "), strconv.Itoa(t.Points)})
	}
	return section
}

func tasksSection(tasks []entity.Task) ExportSection {
	section := ExportSection{
		Name:   "Tasks",
		Header: []string{"Title", "Type", "Category", "Risk Points", "Reward Points", "Time Limit"},
	}
	for _, t := range tasks {
		section.Rows = append(section.Rows, []string{
			t.Title,
			t.Type,
			t.Category,
			strconv.Itoa(t.RiskPoints),
			strconv.Itoa(t.RewardPoints),
			strconv.Itoa(t.TimeLimit),
		})
	}
	return section
}

func submissionsSection(submissions []entity.Submission, teamNames, taskTitles map[uint]string) ExportSection {
	section := ExportSection{
		Name:   "Submissions",
		Header: []string{"Team", "Task", "Evaluated", "Correct", "Points Earned", "Submitted At"},
	}
	for _, sub := range submissions {
		team, okTeam := teamNames[sub.TeamID]
		task, okTask := taskTitles[sub.TaskID]
		if !okTeam || !okTask {
			continue
		}
		correct := sub.IsCorrect != nil && *sub.IsCorrect
		points := 0
		if sub.PointsEarned != nil {
			points = *sub.PointsEarned
		}
		section.Rows = append(section.Rows, []string{
			team,
			task,
			yesNo(sub.IsEvaluated),
			yesNo(correct),
			strconv.Itoa(points),
			sub.SubmittedAt.Format(time.RFC3339),
		})
	}
	return section
}

func reflectionsSection(reflections []entity.Reflection, teamNames map[uint]string) ExportSection {
	section := ExportSection{Name: "Reflections", Header: []string{"Team", "Question", "Answer"}}
	for _, r := range reflections {
		team, ok := teamNames[r.TeamID]
		if !ok {
			continue
		}
		section.Rows = append(section.Rows, []string{team, r.Question, r.Answer})
	}
	return section
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename возвращает имя файла выгрузки: пробелы в названии заменяются на "_"
func (e *GameExport) Filename(ext string) string {
	return whitespaceRun.ReplaceAllString(e.Game.Title, "_") + "_data." + ext
}

// WriteCSV пишет выгрузку в CSV: секции идут подряд, разделенные пустой строкой
func (e *GameExport) WriteCSV(w io.Writer) error {
	// BOM для корректного отображения UTF-8 в Excel
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	for i, section := range e.Sections {
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return err
			}
		}
		if err := writer.Write([]string{section.Name}); err != nil {
			return err
		}
		if len(section.Header) > 0 {
			if err := writer.Write(section.Header); err != nil {
				return err
			}
		}
		for _, row := range section.Rows {
			if err := writer.Write(sanitizeRow(row)); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX пишет выгрузку в Excel, по листу на секцию
func (e *GameExport) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, section := range e.Sections {
		sheet := section.Name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		sw, err := f.NewStreamWriter(sheet)
		if err != nil {
			return fmt.Errorf("failed to create stream writer: %w", err)
		}
		rowNum := 1
		if len(section.Header) > 0 {
			if err := sw.SetRow("A1", toCells(section.Header)); err != nil {
				return err
			}
			rowNum++
		}
		for _, row := range section.Rows {
			if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), toCells(sanitizeRow(row))); err != nil {
				return err
			}
			rowNum++
		}
		if err := sw.Flush(); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

func sanitizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = sanitizeForExcel(v)
	}
	return out
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
