// Package condition вычисление условий перехода по связям между этапами.
package condition

import (
	"encoding/json"
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
)

// Config параметры условного перехода
type Config struct {
	MinScore *float64 `json:"min_score,omitempty"` // Минимальный балл для перехода
	MaxScore *float64 `json:"max_score,omitempty"` // Максимальный балл для перехода
}

var successResults = map[string]bool{
	"pass":      true,
	"completed": true,
	"approved":  true,
}

var failureResults = map[string]bool{
	"fail":     true,
	"failed":   true,
	"rejected": true,
}

// IsSuccessResult точное совпадение с токеном успеха, регистр и пробелы значимы
func IsSuccessResult(result string) bool {
	return successResults[result]
}

func IsFailureResult(result string) bool {
	return failureResults[result]
}

// Evaluate можно ли пройти по связи с указанным условием при данном результате этапа
func Evaluate(conditionType models.ConditionType, result string, score *float64, cfg *Config) bool {
	switch conditionType {
	case models.ConditionSuccess:
		return IsSuccessResult(result)
	case models.ConditionFailure:
		return IsFailureResult(result)
	case models.ConditionAlways:
		return true
	case models.ConditionConditional:
		if score == nil || cfg == nil || cfg.MinScore == nil {
			return false
		}
		if *score < *cfg.MinScore {
			return false
		}
		if cfg.MaxScore != nil && *score > *cfg.MaxScore {
			return false
		}
		return true
	}
	return false
}

// ParseConfig разбор параметров условия из json
func ParseConfig(raw []byte) (*Config, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	cfg := Config{}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, wferrors.InvalidArgument("некорректные параметры условия перехода: %v", err)
	}
	return &cfg, nil
}

// ValidateConfig проверка параметров условия для типа связи
func ValidateConfig(conditionType models.ConditionType, cfg *Config) error {
	if !conditionType.IsValid() {
		return wferrors.InvalidArgument("неизвестный тип условия перехода: %v", conditionType)
	}
	if conditionType != models.ConditionConditional {
		return nil
	}
	if cfg == nil || cfg.MinScore == nil {
		return wferrors.InvalidArgument("для условного перехода необходимо указать min_score")
	}
	if cfg.MaxScore != nil && *cfg.MaxScore < *cfg.MinScore {
		return wferrors.InvalidArgument("max_score не может быть меньше min_score")
	}
	return nil
}
