package dashboard

import (
	"testing"

	"github.com/edusegment/student-cohorts/internal/model"
	"github.com/edusegment/student-cohorts/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaixaBoundaries(t *testing.T) {
	assert.Equal(t, FaixaBaixa, Faixa(3.999))
	assert.Equal(t, FaixaMedia, Faixa(4.0))
	assert.Equal(t, FaixaMedia, Faixa(6.999))
	assert.Equal(t, FaixaAlta, Faixa(7.0))
	assert.Equal(t, FaixaBaixa, Faixa(0))
	assert.Equal(t, FaixaAlta, Faixa(10))
}

// testBatch is 20 students over 3 classrooms (12/5/3) with two clearly
// separated socioeconomic profiles inside turma A.
func testBatch() []core.StudentRecord {
	records := make([]core.StudentRecord, 0, 20)

	id := 1
	add := func(turma string, media, renda float64, trabalha string, tempo float64, raca, seg, internet string) {
		records = append(records, core.StudentRecord{
			ID:                   id,
			Turma:                turma,
			MediaGeral:           media,
			RendaFamiliar:        renda,
			TrabalhaFora:         trabalha,
			TempoDeslocamentoMin: tempo,
			CorRaca:              raca,
			SegurancaAlimentar:   seg,
			AcessoInternet:       internet,
		})
		id++
	}

	highs := []float64{7.8, 8.0, 8.2, 7.9, 8.1, 8.3}
	for _, media := range highs {
		add("A", media, 3000, "Não", 15, "Branca", "Segura", "Sim")
	}
	lows := []float64{3.0, 3.2, 3.4, 3.1, 3.3, 3.5}
	for _, media := range lows {
		add("A", media, 900, "Sim", 80, "Parda", "Grave Insegurança", "Não")
	}
	for i := 0; i < 5; i++ {
		add("B", 5.5, 1800, "Não", 30, "Parda", "Leve Insegurança", "Sim")
	}
	for i := 0; i < 3; i++ {
		add("C", 6.5, 2200, "Não", 20, "Branca", "Segura", "Sim")
	}

	return records
}

func trainedFitter(t *testing.T, records []core.StudentRecord, config model.Config) *model.Fitter {
	f := model.NewFitter(config)
	_, err := f.Train(records)
	require.NoError(t, err)
	return f
}

func TestGenerateBeforeTrain(t *testing.T) {
	a := New(model.NewFitter(model.DefaultConfig()))
	_, err := a.Generate(testBatch())
	assert.Error(t, err)
	assert.Equal(t, model.ErrNotTrained, errors.Cause(err))
}

func TestGenerateEmptyBatch(t *testing.T) {
	a := New(model.NewFitter(model.DefaultConfig()))
	_, err := a.Generate(nil)
	assert.Error(t, err)
}

func TestGenerateMetadata(t *testing.T) {
	batch := testBatch()
	doc, err := New(trainedFitter(t, batch, model.DefaultConfig())).Generate(batch)
	require.NoError(t, err)

	assert.Equal(t, 20, doc.Metadata.TotalAlunos)
	assert.Equal(t, 3, doc.Metadata.TotalTurmas)
	assert.NotEmpty(t, doc.Metadata.DataGeracao)
}

func TestGenerateFaixaSummaries(t *testing.T) {
	batch := testBatch()
	doc, err := New(trainedFitter(t, batch, model.DefaultConfig())).Generate(batch)
	require.NoError(t, err)

	require.Equal(t, 3, len(doc.ResumoGeral.PorFaixa))

	byFaixa := make(map[string]core.FaixaResumo)
	for _, f := range doc.ResumoGeral.PorFaixa {
		byFaixa[f.Faixa] = f
	}

	baixa := byFaixa[FaixaBaixa]
	assert.Equal(t, 6, baixa.TotalAlunos)
	assert.Equal(t, 30.0, baixa.Percentual)
	assert.Equal(t, 100.0, baixa.PctTrabalha)
	assert.Equal(t, 900.0, baixa.RendaMedia)
	assert.Equal(t, 100.0, baixa.PctPretosPardos)
	assert.Equal(t, 3.0, baixa.IntervaloNotas.Min)
	assert.Equal(t, 3.5, baixa.IntervaloNotas.Max)
	assert.Equal(t, 3.25, baixa.IntervaloNotas.Media)
	assert.Equal(t, 3.25, baixa.IntervaloNotas.Mediana)

	media := byFaixa[FaixaMedia]
	assert.Equal(t, 8, media.TotalAlunos)
	assert.Equal(t, 40.0, media.Percentual)
	assert.Equal(t, 5.5, media.IntervaloNotas.Min)
	assert.Equal(t, 6.5, media.IntervaloNotas.Max)
	assert.Equal(t, 5.88, media.IntervaloNotas.Media)
	assert.Equal(t, 5.5, media.IntervaloNotas.Mediana)
	assert.Equal(t, 1950.0, media.RendaMedia)
	assert.Equal(t, 62.5, media.PctPretosPardos)
}

func TestGenerateCriticalFactors(t *testing.T) {
	batch := testBatch()
	doc, err := New(trainedFitter(t, batch, model.DefaultConfig())).Generate(batch)
	require.NoError(t, err)

	fatores := doc.ResumoGeral.FatoresCriticos
	assert.Equal(t, 6, fatores.Trabalho)
	assert.Equal(t, 6, fatores.BaixaRenda)
	assert.Equal(t, 6, fatores.DeslocamentoLongo)
	assert.Equal(t, 11, fatores.InsegAlimentar)
	assert.Equal(t, 6, fatores.SemInternet)
	assert.Equal(t, 11, fatores.PretosPardosIndigenas)
	assert.Equal(t, 0, doc.ResumoGeral.AlunosRiscoAlto)
}

func TestGenerateGlobalClusters(t *testing.T) {
	batch := testBatch()
	doc, err := New(trainedFitter(t, batch, model.DefaultConfig())).Generate(batch)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(doc.ClustersGlobais), 1)
	assert.LessOrEqual(t, len(doc.ClustersGlobais), 4)

	sum := 0
	for _, c := range doc.ClustersGlobais {
		// empty clusters never leak into the document
		assert.Greater(t, c.TotalAlunos, 0)
		assert.Equal(t, c.TotalAlunos, len(c.Alunos))
		assert.GreaterOrEqual(t, c.ClusterID, 0)
		assert.Less(t, c.ClusterID, 4)
		assert.NotEmpty(t, c.FeaturesRelevantes)
		assert.LessOrEqual(t, len(c.FeaturesRelevantes), 3)
		sum += c.TotalAlunos
	}
	assert.Equal(t, 20, sum)
}

func TestGeneratePerTurma(t *testing.T) {
	batch := testBatch()
	doc, err := New(trainedFitter(t, batch, model.DefaultConfig())).Generate(batch)
	require.NoError(t, err)

	require.Equal(t, 3, len(doc.DadosPorTurma))
	assert.Equal(t, "A", doc.DadosPorTurma[0].Turma)
	assert.Equal(t, "B", doc.DadosPorTurma[1].Turma)
	assert.Equal(t, "C", doc.DadosPorTurma[2].Turma)

	turmaA := doc.DadosPorTurma[0]
	assert.Equal(t, 12, turmaA.TotalAlunos)
	assert.LessOrEqual(t, len(turmaA.ClustersTurma), 2)
	assert.GreaterOrEqual(t, len(turmaA.ClustersTurma), 1)
	sum := 0
	for _, c := range turmaA.ClustersTurma {
		assert.Greater(t, c.TotalAlunos, 0)
		assert.Equal(t, c.TotalAlunos, len(c.Alunos))
		sum += c.TotalAlunos
	}
	assert.Equal(t, 12, sum)

	require.Equal(t, 3, len(turmaA.DistribuicaoFaixas))
	assert.Equal(t, 6, turmaA.DistribuicaoFaixas[FaixaBaixa].Total)
	assert.Equal(t, 50.0, turmaA.DistribuicaoFaixas[FaixaBaixa].Percentual)
	assert.Equal(t, 0, turmaA.DistribuicaoFaixas[FaixaMedia].Total)
	assert.Equal(t, 0.0, turmaA.DistribuicaoFaixas[FaixaMedia].Percentual)

	// size 5: min(3, 5/5) = 1 < 2, size 3: min(3, 3/5) = 0 < 2
	assert.Empty(t, doc.DadosPorTurma[1].ClustersTurma)
	assert.Empty(t, doc.DadosPorTurma[2].ClustersTurma)
}

func TestGenerateInsights(t *testing.T) {
	batch := testBatch()
	doc, err := New(trainedFitter(t, batch, model.DefaultConfig())).Generate(batch)
	require.NoError(t, err)

	require.Equal(t, 5, len(doc.InsightsPrincipais))
	assert.Equal(t, "11 alunos são pretos/pardos/indígenas (55.0%)", doc.InsightsPrincipais[0])
	assert.Equal(t, "11 alunos em insegurança alimentar", doc.InsightsPrincipais[1])
	assert.Equal(t, "6 alunos trabalham fora da escola", doc.InsightsPrincipais[2])
	assert.Equal(t, "6 alunos com deslocamento > 60min", doc.InsightsPrincipais[3])
	assert.Equal(t, "6 alunos sem acesso à internet", doc.InsightsPrincipais[4])
}

// smallBatch has a single-student classroom and one clearly at-risk pair.
func smallBatch() []core.StudentRecord {
	return []core.StudentRecord{
		{ID: 1, Turma: "X", MediaGeral: 2.5, RendaFamiliar: 800, TrabalhaFora: "Sim", TempoDeslocamentoMin: 90, CorRaca: "Parda", SegurancaAlimentar: "Grave Insegurança", AcessoInternet: "Não"},
		{ID: 2, Turma: "X", MediaGeral: 2.5, RendaFamiliar: 800, TrabalhaFora: "Sim", TempoDeslocamentoMin: 85, CorRaca: "Parda", SegurancaAlimentar: "Grave Insegurança", AcessoInternet: "Não"},
		{ID: 3, Turma: "X", MediaGeral: 8.0, RendaFamiliar: 3000, TrabalhaFora: "Não", TempoDeslocamentoMin: 10, CorRaca: "Branca", SegurancaAlimentar: "Segura", AcessoInternet: "Sim"},
		{ID: 4, Turma: "X", MediaGeral: 8.5, RendaFamiliar: 3000, TrabalhaFora: "Não", TempoDeslocamentoMin: 15, CorRaca: "Branca", SegurancaAlimentar: "Segura", AcessoInternet: "Sim"},
		{ID: 5, Turma: "Y", MediaGeral: 5.0, RendaFamiliar: 2000, TrabalhaFora: "Não", TempoDeslocamentoMin: 20, CorRaca: "Branca", SegurancaAlimentar: "Segura", AcessoInternet: "Sim"},
	}
}

func TestGenerateSingleStudentTurma(t *testing.T) {
	batch := smallBatch()
	config := model.Config{NumClustersGlobal: 2}
	doc, err := New(trainedFitter(t, batch, config)).Generate(batch)
	require.NoError(t, err)

	require.Equal(t, 2, len(doc.DadosPorTurma))
	turmaY := doc.DadosPorTurma[1]
	assert.Equal(t, "Y", turmaY.Turma)
	assert.Equal(t, 1, turmaY.TotalAlunos)
	assert.Empty(t, turmaY.ClustersTurma)
	assert.Equal(t, 5.0, turmaY.EstatisticasGerais.MediaTurma)
	assert.Equal(t, 0.0, turmaY.EstatisticasGerais.DesvioPadrao)
	assert.Equal(t, 1, turmaY.DistribuicaoFaixas[FaixaMedia].Total)
	assert.Equal(t, 100.0, turmaY.DistribuicaoFaixas[FaixaMedia].Percentual)
	assert.Equal(t, 0, turmaY.DistribuicaoFaixas[FaixaBaixa].Total)
}

func TestGenerateSingleMemberBand(t *testing.T) {
	batch := smallBatch()
	config := model.Config{NumClustersGlobal: 2}
	doc, err := New(trainedFitter(t, batch, config)).Generate(batch)
	require.NoError(t, err)

	byFaixa := make(map[string]core.FaixaResumo)
	for _, f := range doc.ResumoGeral.PorFaixa {
		byFaixa[f.Faixa] = f
	}

	media := byFaixa[FaixaMedia]
	assert.Equal(t, 1, media.TotalAlunos)
	assert.Equal(t, 20.0, media.Percentual)
	assert.Equal(t, 5.0, media.IntervaloNotas.Min)
	assert.Equal(t, 5.0, media.IntervaloNotas.Max)
	assert.Equal(t, 5.0, media.IntervaloNotas.Media)
	assert.Equal(t, 5.0, media.IntervaloNotas.Mediana)
	assert.Equal(t, 2000.0, media.RendaMedia)
	assert.Equal(t, 0.0, media.PctTrabalha)
}

func TestGenerateFeaturesRelevantes(t *testing.T) {
	batch := smallBatch()
	config := model.Config{NumClustersGlobal: 2}
	doc, err := New(trainedFitter(t, batch, config)).Generate(batch)
	require.NoError(t, err)

	var atRisk *core.ClusterGlobal
	for i, c := range doc.ClustersGlobais {
		for _, aluno := range c.Alunos {
			if aluno.ID == 1 {
				atRisk = &doc.ClustersGlobais[i]
			}
		}
	}
	require.NotNil(t, atRisk)
	require.Equal(t, 2, atRisk.TotalAlunos)

	assert.Equal(t, []string{
		"Desempenho crítico (média 2.5)",
		"100% trabalha fora",
		"Renda média baixa (R$800)",
	}, atRisk.FeaturesRelevantes)
}

func TestFeaturesRelevantesPerformanceFlagOnly(t *testing.T) {
	subset := []core.StudentRecord{
		{MediaGeral: 6.0, RendaFamiliar: 2500, TrabalhaFora: "Não"},
		{MediaGeral: 7.0, RendaFamiliar: 2500, TrabalhaFora: "Não"},
	}
	assert.Equal(t, []string{"Bom desempenho (média 6.5)"}, featuresRelevantes(subset))
}
