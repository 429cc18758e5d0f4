package models

import (
	"time"
)

// User usuário do sistema
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password  string    `json:"-" gorm:"column:senha_hash;size:255;not null"`
	Role      Role      `json:"papel" gorm:"column:papel;size:20;not null;default:regular"`
	CreatedAt time.Time `json:"criado_em" gorm:"column:criado_em"`

	// ProjectIDs ACL carregada a cada requisição, nunca persistida por aqui
	ProjectIDs []uint        `json:"obras" gorm:"-"`
	Projects   []UserProject `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "usuarios"
}

// IsMaster master enxerga todas as obras
func (u *User) IsMaster() bool {
	return u.Role == RoleMaster
}

// CanManageUsers master e admin administram usuários
func (u *User) CanManageUsers() bool {
	return u.Role == RoleMaster || u.Role == RoleAdmin
}

// CanAccess master sempre; demais apenas obras da ACL
func (u *User) CanAccess(projectID uint) bool {
	if u.IsMaster() {
		return true
	}
	for _, id := range u.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// UserProject vínculo usuário ↔ obra
type UserProject struct {
	UserID    uint `json:"usuario_id" gorm:"column:usuario_id;primaryKey;autoIncrement:false"`
	ProjectID uint `json:"obra_id" gorm:"column:obra_id;primaryKey;autoIncrement:false;index"`
}

func (UserProject) TableName() string {
	return "usuario_obras"
}
