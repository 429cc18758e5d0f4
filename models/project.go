package models

import "time"

// Project obra, raiz de todos os demais registros
type Project struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"nome" gorm:"column:nome;size:150;not null"`
	Client    *string   `json:"cliente" gorm:"column:cliente;size:150"`
	CreatedAt time.Time `json:"-" gorm:"column:criado_em"`

	// relações declaradas apenas para gerar as FKs com cascade
	Entries        []Entry         `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	SubWorks       []SubWork       `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Quotes         []Quote         `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Invoices       []Invoice       `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	PurchaseItems  []PurchaseItem  `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	ScheduleStages []ScheduleStage `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Members        []UserProject   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "obras"
}
