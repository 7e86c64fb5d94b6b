package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerRegistrado(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var spec struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))
	assert.Equal(t, "2.0", spec.Swagger)
	assert.Contains(t, spec.Paths, "/api/auth/login")
	assert.Contains(t, spec.Paths["/api/folha/competencias/{id}/holerites/{matricula}"], "get")
	assert.Contains(t, spec.Paths, "/api/public/{slug}/transparencia")
	assert.Contains(t, spec.Paths["/api/financeiro/empenhos/{id}/liquidacoes"], "post")
	assert.Contains(t, spec.Paths["/api/saude/agendamentos/{id}/status"], "post")
}
