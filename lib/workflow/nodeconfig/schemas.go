package nodeconfig

import "hr-workflow-backend/models"

var schemas = map[models.NodeType]string{
	models.NodeTypeInterview: `{
		"type": "object",
		"additionalProperties": false,
		"required": ["duration_minutes"],
		"properties": {
			"duration_minutes":   {"type": "integer", "minimum": 5, "maximum": 480},
			"interview_format":   {"type": "string", "enum": ["video", "phone", "onsite"]},
			"interviewers":       {"type": "array", "items": {"type": "string", "minLength": 1}},
			"scorecard_required": {"type": "boolean"}
		}
	}`,
	models.NodeTypeTodo: `{
		"type": "object",
		"additionalProperties": false,
		"required": ["due_in_days"],
		"properties": {
			"due_in_days":   {"type": "integer", "minimum": 0, "maximum": 365},
			"assignee_role": {"type": "string"},
			"checklist":     {"type": "array", "items": {"type": "string", "minLength": 1}}
		}
	}`,
	models.NodeTypeAssessment: `{
		"type": "object",
		"additionalProperties": false,
		"required": ["passing_score"],
		"properties": {
			"passing_score":      {"type": "number", "minimum": 0},
			"max_score":          {"type": "number", "minimum": 1},
			"time_limit_minutes": {"type": "integer", "minimum": 1},
			"assessment_url":     {"type": "string"}
		}
	}`,
	models.NodeTypeDecision: `{
		"type": "object",
		"additionalProperties": false,
		"required": ["decision_makers"],
		"properties": {
			"decision_makers":   {"type": "array", "minItems": 1, "uniqueItems": true, "items": {"type": "string", "minLength": 1}},
			"require_unanimous": {"type": "boolean"}
		}
	}`,
}
