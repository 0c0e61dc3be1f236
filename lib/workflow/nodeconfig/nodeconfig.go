// Package nodeconfig типизированная конфигурация этапов процесса.
// Для каждого типа этапа своя структура и своя json-схема.
package nodeconfig

import (
	"encoding/json"
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

type Config interface {
	NodeType() models.NodeType
	validate() error
}

type InterviewConfig struct {
	DurationMinutes   int      `json:"duration_minutes"`             // Длительность интервью
	InterviewFormat   string   `json:"interview_format,omitempty"`   // Формат: video/phone/onsite
	Interviewers      []string `json:"interviewers,omitempty"`       // Интервьюеры
	ScorecardRequired bool     `json:"scorecard_required,omitempty"` // Обязательна оценочная карта
}

func (c InterviewConfig) NodeType() models.NodeType { return models.NodeTypeInterview }

func (c InterviewConfig) validate() error {
	seen := map[string]bool{}
	for _, id := range c.Interviewers {
		if seen[id] {
			return errors.Errorf("интервьюер %v указан повторно", id)
		}
		seen[id] = true
	}
	return nil
}

type TodoConfig struct {
	DueInDays    int      `json:"due_in_days"`             // Срок выполнения в днях
	AssigneeRole string   `json:"assignee_role,omitempty"` // Роль исполнителя
	Checklist    []string `json:"checklist,omitempty"`     // Чек-лист задачи
}

func (c TodoConfig) NodeType() models.NodeType { return models.NodeTypeTodo }

func (c TodoConfig) validate() error { return nil }

type AssessmentConfig struct {
	PassingScore     float64  `json:"passing_score"`                // Проходной балл
	MaxScore         *float64 `json:"max_score,omitempty"`          // Максимальный балл
	TimeLimitMinutes int      `json:"time_limit_minutes,omitempty"` // Лимит времени
	AssessmentURL    string   `json:"assessment_url,omitempty"`     // Ссылка на тест
}

func (c AssessmentConfig) NodeType() models.NodeType { return models.NodeTypeAssessment }

func (c AssessmentConfig) validate() error {
	if c.MaxScore != nil && c.PassingScore > *c.MaxScore {
		return errors.New("проходной балл больше максимального")
	}
	return nil
}

type DecisionConfig struct {
	DecisionMakers   []string `json:"decision_makers"`             // Лица, принимающие решение
	RequireUnanimous bool     `json:"require_unanimous,omitempty"` // Требуется единогласное решение
}

func (c DecisionConfig) NodeType() models.NodeType { return models.NodeTypeDecision }

func (c DecisionConfig) validate() error { return nil }

// Default конфигурация этапа, если она не передана
func Default(nodeType models.NodeType) (Config, bool) {
	switch nodeType {
	case models.NodeTypeInterview:
		return InterviewConfig{DurationMinutes: 60, InterviewFormat: "video"}, true
	case models.NodeTypeTodo:
		return TodoConfig{DueInDays: 3}, true
	case models.NodeTypeAssessment:
		maxScore := 100.0
		return AssessmentConfig{PassingScore: 60, MaxScore: &maxScore}, true
	}
	return nil, false
}

var (
	compiled   = map[models.NodeType]*gojsonschema.Schema{}
	compiledMu sync.Mutex
)

func getSchema(nodeType models.NodeType) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if schema, ok := compiled[nodeType]; ok {
		return schema, nil
	}
	raw, ok := schemas[nodeType]
	if !ok {
		return nil, wferrors.ConfigValidation("неизвестный тип этапа: %v", nodeType)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка загрузки схемы этапа %v", nodeType)
	}
	compiled[nodeType] = schema
	return schema, nil
}

func isEmpty(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "{}"
}

// Parse проверка конфигурации по схеме типа этапа и разбор в типизированную структуру
func Parse(nodeType models.NodeType, raw []byte) (Config, error) {
	if !nodeType.IsValid() {
		return nil, wferrors.ConfigValidation("неизвестный тип этапа: %v", nodeType)
	}
	if isEmpty(raw) {
		if cfg, ok := Default(nodeType); ok {
			return cfg, nil
		}
		raw = []byte("{}")
	}
	schema, err := getSchema(nodeType)
	if err != nil {
		return nil, err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, wferrors.ConfigValidation("конфигурация этапа не является корректным json: %v", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			details = append(details, resultErr.String())
		}
		return nil, wferrors.ConfigValidation("%v", strings.Join(details, "; "))
	}

	var cfg Config
	switch nodeType {
	case models.NodeTypeInterview:
		c := InterviewConfig{}
		err = json.Unmarshal(raw, &c)
		cfg = c
	case models.NodeTypeTodo:
		c := TodoConfig{}
		err = json.Unmarshal(raw, &c)
		cfg = c
	case models.NodeTypeAssessment:
		c := AssessmentConfig{}
		err = json.Unmarshal(raw, &c)
		cfg = c
	case models.NodeTypeDecision:
		c := DecisionConfig{}
		err = json.Unmarshal(raw, &c)
		cfg = c
	}
	if err != nil {
		return nil, wferrors.ConfigValidation("%v", err)
	}
	if err = cfg.validate(); err != nil {
		return nil, wferrors.ConfigValidation("%v", err)
	}
	return cfg, nil
}

// Normalize проверенная конфигурация в каноничном json для сохранения
func Normalize(nodeType models.NodeType, raw []byte) ([]byte, error) {
	cfg, err := Parse(nodeType, raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cfg)
}

// DueDate срок выполнения этапа, если он задан конфигурацией
func DueDate(cfg Config, from time.Time) *time.Time {
	todo, ok := cfg.(TodoConfig)
	if !ok {
		return nil
	}
	due := from.AddDate(0, 0, todo.DueInDays)
	return &due
}
