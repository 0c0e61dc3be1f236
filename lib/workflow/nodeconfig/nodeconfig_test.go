package nodeconfig

import (
	"encoding/json"
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run(`interview check`, func(t *testing.T) {
		cfg, err := Parse(models.NodeTypeInterview, []byte(`{"duration_minutes": 45, "interview_format": "phone", "interviewers": ["u1", "u2"]}`))
		require.Nil(t, err)
		interview, ok := cfg.(InterviewConfig)
		require.True(t, ok)
		require.Equal(t, 45, interview.DurationMinutes)
		require.Equal(t, "phone", interview.InterviewFormat)
		require.Len(t, interview.Interviewers, 2)

		_, err = Parse(models.NodeTypeInterview, []byte(`{"duration_minutes": 1}`))
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))

		_, err = Parse(models.NodeTypeInterview, []byte(`{"duration_minutes": 30, "interview_format": "telepathy"}`))
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))

		_, err = Parse(models.NodeTypeInterview, []byte(`{"duration_minutes": 30, "interviewers": ["u1", "u1"]}`))
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))
	})

	t.Run(`todo check`, func(t *testing.T) {
		cfg, err := Parse(models.NodeTypeTodo, []byte(`{"due_in_days": 5, "checklist": ["паспорт"]}`))
		require.Nil(t, err)
		require.Equal(t, TodoConfig{DueInDays: 5, Checklist: []string{"паспорт"}}, cfg)

		_, err = Parse(models.NodeTypeTodo, []byte(`{"due_in_days": 5, "unknown": true}`))
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))
	})

	t.Run(`assessment check`, func(t *testing.T) {
		cfg, err := Parse(models.NodeTypeAssessment, []byte(`{"passing_score": 70, "max_score": 100}`))
		require.Nil(t, err)
		assessment := cfg.(AssessmentConfig)
		require.Equal(t, 70.0, assessment.PassingScore)

		_, err = Parse(models.NodeTypeAssessment, []byte(`{"passing_score": 170, "max_score": 100}`))
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))
	})

	t.Run(`decision check`, func(t *testing.T) {
		cfg, err := Parse(models.NodeTypeDecision, []byte(`{"decision_makers": ["ceo"]}`))
		require.Nil(t, err)
		require.Equal(t, []string{"ceo"}, cfg.(DecisionConfig).DecisionMakers)

		_, err = Parse(models.NodeTypeDecision, nil)
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))

		_, err = Parse(models.NodeTypeDecision, []byte(`{"decision_makers": []}`))
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))
	})

	t.Run(`defaults check`, func(t *testing.T) {
		cfg, err := Parse(models.NodeTypeInterview, nil)
		require.Nil(t, err)
		require.Equal(t, 60, cfg.(InterviewConfig).DurationMinutes)

		cfg, err = Parse(models.NodeTypeTodo, []byte("{}"))
		require.Nil(t, err)
		require.Equal(t, 3, cfg.(TodoConfig).DueInDays)
	})

	t.Run(`bad input check`, func(t *testing.T) {
		_, err := Parse(models.NodeType("meeting"), []byte(`{}`))
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))

		_, err = Parse(models.NodeTypeTodo, []byte(`{"due_in_days":`))
		require.True(t, errors.Is(err, wferrors.ErrConfigValidation))
	})
}

func TestNormalize(t *testing.T) {
	t.Run(`Normalize check`, func(t *testing.T) {
		raw, err := Normalize(models.NodeTypeTodo, []byte(`{"due_in_days": 2}`))
		require.Nil(t, err)
		data := map[string]any{}
		require.Nil(t, json.Unmarshal(raw, &data))
		require.Equal(t, 2.0, data["due_in_days"])
	})

	t.Run(`DueDate check`, func(t *testing.T) {
		from := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		due := DueDate(TodoConfig{DueInDays: 4}, from)
		require.NotNil(t, due)
		require.Equal(t, time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC), *due)
		require.Nil(t, DueDate(InterviewConfig{DurationMinutes: 30}, from))
	})
}
