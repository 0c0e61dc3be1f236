package wsmodels

type ServerMessage struct {
	ToUserID            string `json:"-"`
	Time                string `json:"time"`                            // время события
	Code                string `json:"code"`                            // код события
	Msg                 string `json:"msg"`                             // текст события
	CandidateWorkflowID string `json:"candidate_workflow_id,omitempty"` // процесс кандидата
	ExecutionID         string `json:"execution_id,omitempty"`          // этап кандидата
}
