package database

import (
	"fmt"
	"log"
	"strings"

	"obras/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// schemaMigrator subconjunto de gorm.Migrator usado pelas migrações aditivas
type schemaMigrator interface {
	HasColumn(dst interface{}, field string) bool
	AddColumn(dst interface{}, field string) error
	HasConstraint(dst interface{}, name string) bool
	CreateConstraint(dst interface{}, name string) error
	HasIndex(dst interface{}, name string) bool
	CreateIndex(dst interface{}, name string) error
}

type stepKind int

const (
	addColumn stepKind = iota
	addConstraint
	addIndex
)

// schemaStep uma alteração aditiva; name é o campo Go, a relação ou o índice
type schemaStep struct {
	kind  stepKind
	model interface{}
	table string
	name  string
}

func (s schemaStep) String() string {
	switch s.kind {
	case addColumn:
		return fmt.Sprintf("coluna %s.%s", s.table, s.name)
	case addConstraint:
		return fmt.Sprintf("constraint %s.%s", s.table, s.name)
	default:
		return fmt.Sprintf("índice %s.%s", s.table, s.name)
	}
}

// schemaSteps colunas, FKs e índices acrescentados depois da primeira versão
var schemaSteps = []schemaStep{
	{addColumn, &models.Entry{}, "lancamentos", "Paid"},
	{addColumn, &models.Entry{}, "lancamentos", "Priority"},
	{addColumn, &models.Entry{}, "lancamentos", "Vendor"},
	{addColumn, &models.Entry{}, "lancamentos", "SubWorkID"},
	{addColumn, &models.SubWorkPayment{}, "pagamentos_empreitada", "Paid"},
	{addColumn, &models.SubWorkPayment{}, "pagamentos_empreitada", "Priority"},
	{addColumn, &models.SubWorkPayment{}, "pagamentos_empreitada", "Note"},
	{addColumn, &models.PurchaseItem{}, "cronograma_compras", "EntryID"},
	{addColumn, &models.PurchaseItem{}, "cronograma_compras", "ActualDate"},
	{addColumn, &models.PurchaseItem{}, "cronograma_compras", "ActualAmount"},
	{addConstraint, &models.Project{}, "obras", "Entries"},
	{addConstraint, &models.Project{}, "obras", "SubWorks"},
	{addConstraint, &models.Project{}, "obras", "Quotes"},
	{addConstraint, &models.SubWork{}, "empreitadas", "Entries"},
	{addConstraint, &models.SubWork{}, "empreitadas", "Payments"},
	{addConstraint, &models.Project{}, "obras", "Invoices"},
	{addConstraint, &models.Project{}, "obras", "PurchaseItems"},
	{addConstraint, &models.Project{}, "obras", "ScheduleStages"},
	{addConstraint, &models.Project{}, "obras", "Members"},
	{addConstraint, &models.User{}, "usuarios", "Projects"},
	{addConstraint, &models.PurchaseItem{}, "cronograma_compras", "Entry"},
	{addConstraint, &models.Quote{}, "orcamentos", "Entry"},
	{addIndex, &models.Entry{}, "lancamentos", "Date"},
	{addIndex, &models.PurchaseItem{}, "cronograma_compras", "PlannedDate"},
	{addIndex, &models.Invoice{}, "notas_fiscais", "idx_nf_dono"},
	{addIndex, &models.ScheduleStage{}, "cronograma_obra", "idx_cronograma_obra_ordem"},
}

// alreadyExists alguns bancos acusam a constraint mesmo quando Has* diz que não existe
func alreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate")
}

// EnsureSchema aplica cada passo ausente; rodar de novo não altera nada.
// Retorna a descrição dos passos aplicados.
func EnsureSchema(m schemaMigrator) ([]string, error) {
	var applied []string
	for _, step := range schemaSteps {
		var err error
		switch step.kind {
		case addColumn:
			if m.HasColumn(step.model, step.name) {
				continue
			}
			err = m.AddColumn(step.model, step.name)
		case addConstraint:
			if m.HasConstraint(step.model, step.name) {
				continue
			}
			if err = m.CreateConstraint(step.model, step.name); err != nil && alreadyExists(err) {
				continue
			}
		case addIndex:
			if m.HasIndex(step.model, step.name) {
				continue
			}
			err = m.CreateIndex(step.model, step.name)
		}
		if err != nil {
			return applied, fmt.Errorf("falha ao aplicar %s: %w", step, err)
		}
		applied = append(applied, step.String())
	}
	return applied, nil
}

// migrations histórico versionado (tabela migrations do gormigrate)
func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			// tabelas criadas depois da primeira versão (cronogramas, notas, ACL)
			ID: "202501050000_tabelas_novas",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(AllModels()...)
			},
		},
		{
			ID: "202501100000_colunas_aditivas",
			Migrate: func(tx *gorm.DB) error {
				applied, err := EnsureSchema(tx.Migrator())
				for _, a := range applied {
					log.Printf("migração: %s", a)
				}
				return err
			},
		},
	}
}

// Migrate banco vazio recebe o schema completo; bancos existentes recebem
// apenas as migrações ainda não registradas
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	m.InitSchema(func(tx *gorm.DB) error {
		log.Println("banco vazio detectado, criando schema completo")
		return tx.AutoMigrate(AllModels()...)
	})
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migração falhou: %w", err)
	}
	return nil
}
