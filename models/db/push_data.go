package dbmodels

// PushData уведомление, которое не удалось доставить пользователю без подключения
type PushData struct {
	BaseModel
	UserID              string `gorm:"type:varchar(36);index:idx_push_user"`
	Code                string `gorm:"type:varchar(255)"`
	Msg                 string
	CandidateWorkflowID string `gorm:"type:varchar(36)"`
	ExecutionID         string `gorm:"type:varchar(36)"`
}
