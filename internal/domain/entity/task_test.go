package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Grade(t *testing.T) {
	task := &Task{
		Type:          TaskTypeMultipleChoice,
		Options:       StringArray{"Empathy", "Control", "Speed"},
		CorrectAnswer: "Empathy",
		RewardPoints:  10,
		RiskPoints:    5,
	}

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
		wantPoints  int
	}{
		{"правильный ответ", "Empathy", true, 10},
		{"неправильный ответ", "Control", false, -5},
		{"регистр имеет значение", "empathy", false, -5},
		{"пустой ответ", "", false, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, points := task.Grade(tt.answer)
			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantPoints, points)
		})
	}
}

func TestTask_Kinds(t *testing.T) {
	assert.True(t, (&Task{Type: TaskTypeMultipleChoice}).IsAutoGraded())
	assert.False(t, (&Task{Type: TaskTypeText}).IsAutoGraded())
	assert.True(t, (&Task{Type: TaskTypeVideo}).RequiresMedia())
	assert.False(t, (&Task{Type: TaskTypeText}).RequiresMedia())

	assert.True(t, ValidTaskType("video"))
	assert.False(t, ValidTaskType("essay"))
}

func TestTask_ApplyDefaults(t *testing.T) {
	task := &Task{}
	task.ApplyDefaults()

	assert.Equal(t, DefaultTaskTimeLimit, task.TimeLimit)
	assert.Equal(t, DefaultTaskCategory, task.Category)
	assert.NotNil(t, task.Options)

	custom := &Task{TimeLimit: 30, Category: "Samarbeid"}
	custom.ApplyDefaults()
	assert.Equal(t, 30, custom.TimeLimit)
	assert.Equal(t, "Samarbeid", custom.Category)
}

func TestStringArray_ScanAndValue(t *testing.T) {
	var arr StringArray

	require.NoError(t, arr.Scan([]byte(`["A","B"]`)))
	assert.Equal(t, StringArray{"A", "B"}, arr)

	require.NoError(t, arr.Scan(`["C"]`))
	assert.Equal(t, StringArray{"C"}, arr)

	require.NoError(t, arr.Scan(nil))
	assert.Empty(t, arr)

	assert.Error(t, arr.Scan(42))

	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestSubmission_AnswerTextAndAppliedPoints(t *testing.T) {
	points := -5
	sub := &Submission{Answer: []byte(`"Empathy"`)}
	assert.Equal(t, "Empathy", sub.AnswerText())

	sub.Answer = []byte(`{"text":"free form"}`)
	assert.Equal(t, `{"text":"free form"}`, sub.AnswerText())

	sub.PointsEarned = &points
	assert.Equal(t, 0, sub.AppliedPoints(), "неоцененная отправка не влияет на счет")

	sub.IsEvaluated = true
	assert.Equal(t, -5, sub.AppliedPoints())
}

func TestTeam_HasMember(t *testing.T) {
	team := &Team{Members: []TeamMember{{UserID: 3}, {UserID: 7}}}
	assert.True(t, team.HasMember(7))
	assert.False(t, team.HasMember(1))
}
