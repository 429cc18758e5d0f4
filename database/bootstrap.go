package database

import (
	"errors"
	"fmt"
	"log"

	"obras/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrConfirmationRequired operação destrutiva sem confirmação explícita
	ErrConfirmationRequired = errors.New("operação destrutiva exige confirmação explícita")
	ErrUnknownTable         = errors.New("tabela desconhecida")
)

// AllModels todas as tabelas, na ordem de criação
func AllModels() []interface{} {
	return []interface{}{
		&models.Project{},
		&models.User{},
		&models.UserProject{},
		&models.SubWork{},
		&models.Entry{},
		&models.SubWorkPayment{},
		&models.Quote{},
		&models.Invoice{},
		&models.PurchaseItem{},
		&models.ScheduleStage{},
	}
}

// Bootstrap cria as tabelas ausentes e aplica os passos aditivos; idempotente
func Bootstrap(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("falha ao criar tabelas: %w", err)
	}
	applied, err := EnsureSchema(db.Migrator())
	for _, a := range applied {
		log.Printf("bootstrap: %s", a)
	}
	return err
}

// modelByTable localiza o model de uma tabela
func modelByTable(name string) (interface{}, bool) {
	for _, m := range AllModels() {
		if t, ok := m.(interface{ TableName() string }); ok && t.TableName() == name {
			return m, true
		}
	}
	return nil, false
}

// RecreateTable apaga e recria uma única tabela. Todos os dados dela são perdidos.
func RecreateTable(db *gorm.DB, name string, confirm bool) error {
	model, ok := modelByTable(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if !confirm {
		return ErrConfirmationRequired
	}
	if err := db.Migrator().DropTable(model); err != nil {
		return fmt.Errorf("falha ao remover %s: %w", name, err)
	}
	if err := db.AutoMigrate(model); err != nil {
		return fmt.Errorf("falha ao recriar %s: %w", name, err)
	}
	log.Printf("tabela %s recriada", name)
	return nil
}

// SeedMaster cria o usuário master inicial quando ainda não existe nenhum.
// Sem senha configurada não faz nada.
func SeedMaster(db *gorm.DB, username, password string) error {
	if password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.User{}).Where("papel = ?", models.RoleMaster).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if username == "" {
		username = "master"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{Username: username, Password: string(hash), Role: models.RoleMaster}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("falha ao criar usuário master: %w", err)
	}
	log.Printf("usuário master %q criado", username)
	return nil
}
