package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailCoercion(t *testing.T) {
	r := StudentRecord{
		ID:                   7,
		Turma:                "9A",
		NomeAluno:            "Ana",
		RendaFamiliar:        1234.56,
		TempoDeslocamentoMin: 42.9,
		MediaGeral:           7.456,
		Matematica1Bim:       6.123,
		FrequenciaPercentual: 87.5,
	}

	d := r.Detail()
	assert.Equal(t, 7, d.ID)
	assert.Equal(t, 1234, d.RendaFamiliar)
	assert.Equal(t, 42, d.TempoDeslocamentoMin)
	assert.Equal(t, 7.46, d.MediaGeral)
	assert.Equal(t, 6.12, d.Matematica1Bim)
	assert.Equal(t, 87, d.FrequenciaPercentual)
}

func TestDetailDefaults(t *testing.T) {
	d := StudentRecord{}.Detail()
	assert.Equal(t, "Não", d.AreaRiscoAmbiental)
	assert.Equal(t, "", d.TipoTrabalho)
	assert.Equal(t, 0, d.NumeroIrmaos)
	assert.Equal(t, 0.0, d.MediaGeral)

	set := StudentRecord{AreaRiscoAmbiental: "Sim"}.Detail()
	assert.Equal(t, "Sim", set.AreaRiscoAmbiental)
}

func TestDetailJSONKeys(t *testing.T) {
	data, err := json.Marshal(StudentRecord{ID: 1, Turma: "9A"}.Detail())
	require.NoError(t, err)

	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{"id", "turma", "nome_aluno", "renda_familiar", "media_geral", "cor_raca", "seguranca_alimentar", "area_risco_ambiental"} {
		_, ok := m[key]
		assert.True(t, ok, "missing key %s", key)
	}
}
