package database

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// cascadeEdges devolve "filha->pai" para cada FK com ON DELETE CASCADE
func cascadeEdges(t *testing.T) map[string]bool {
	cache := &sync.Map{}
	edges := map[string]bool{}
	for _, m := range AllModels() {
		s, err := schema.Parse(m, cache, schema.NamingStrategy{})
		require.NoError(t, err)
		for _, rel := range s.Relationships.Relations {
			c := rel.ParseConstraint()
			if c == nil || c.Schema == nil || c.ReferenceSchema == nil {
				continue
			}
			if strings.EqualFold(c.OnDelete, "CASCADE") {
				edges[c.Schema.Table+"->"+c.ReferenceSchema.Table] = true
			}
		}
	}
	return edges
}

func TestSchema_ProjectDeleteCascades(t *testing.T) {
	edges := cascadeEdges(t)

	owned := []string{
		"lancamentos", "empreitadas", "orcamentos", "notas_fiscais",
		"cronograma_compras", "cronograma_obra", "usuario_obras",
	}
	for _, table := range owned {
		assert.Truef(t, edges[table+"->obras"], "%s deveria ter FK ON DELETE CASCADE para obras", table)
	}
	// parcelas somem junto com a empreitada
	assert.True(t, edges["pagamentos_empreitada->empreitadas"])
	assert.True(t, edges["usuario_obras->usuarios"])
}

func TestSchemaSteps_ConstraintsNameRelations(t *testing.T) {
	cache := &sync.Map{}
	for _, step := range schemaSteps {
		if step.kind != addConstraint {
			continue
		}
		s, err := schema.Parse(step.model, cache, schema.NamingStrategy{})
		require.NoError(t, err)
		assert.Equal(t, step.table, s.Table)
		assert.NotNilf(t, s.Relationships.Relations[step.name], "relação %s", step)
	}
}
