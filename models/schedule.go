package models

// ScheduleStage etapa do cronograma da obra
type ScheduleStage struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ProjectID   uint   `json:"obra_id" gorm:"column:obra_id;not null;uniqueIndex:idx_cronograma_obra_ordem,priority:1"`
	Service     string `json:"servico" gorm:"column:servico;size:150;not null"`
	Order       int    `json:"ordem" gorm:"column:ordem;not null;uniqueIndex:idx_cronograma_obra_ordem,priority:2"`
	StartDate   *Date  `json:"data_inicio" gorm:"column:data_inicio"`
	PlannedEnd  *Date  `json:"data_fim_prevista" gorm:"column:data_fim_prevista"`
	PercentDone int    `json:"percentual_concluido" gorm:"column:percentual_concluido;not null;default:0"`
	Notes       string `json:"observacoes" gorm:"column:observacoes;type:text"`
}

func (ScheduleStage) TableName() string {
	return "cronograma_obra"
}

func (s *ScheduleStage) Validate() error {
	if s.Service == "" {
		return Invalid("servico é obrigatório")
	}
	if s.Order < 1 {
		return Invalid("ordem deve ser maior que zero")
	}
	if s.PercentDone < 0 || s.PercentDone > 100 {
		return Invalid("percentual_concluido deve estar entre 0 e 100")
	}
	if s.StartDate != nil && s.PlannedEnd != nil && s.PlannedEnd.Before(*s.StartDate) {
		return Invalid("data_fim_prevista anterior à data_inicio")
	}
	return nil
}
