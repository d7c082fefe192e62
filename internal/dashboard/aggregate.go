// Package dashboard aggregates raw records and the fitted partitions into
// the nested dashboard document.
package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/edusegment/student-cohorts/internal/model"
	"github.com/edusegment/student-cohorts/pkg/core"
	"github.com/pkg/errors"
)

// Performance bands derived from the general average grade. Boundaries are
// half-open: exactly 4.0 is Médio, exactly 7.0 is Alto.
const (
	FaixaBaixa = "Baixo (0-4)"
	FaixaMedia = "Médio (4-7)"
	FaixaAlta  = "Alto (7-10)"
)

var faixas = []string{FaixaBaixa, FaixaMedia, FaixaAlta}

// Faixa classifies a general average into its performance band.
func Faixa(media float64) string {
	switch {
	case media < 4:
		return FaixaBaixa
	case media < 7:
		return FaixaMedia
	default:
		return FaixaAlta
	}
}

// Critical-factor thresholds.
const (
	rendaBaixaLimite     = 1500.0
	deslocamentoLongoMin = 60.0
	mediaRiscoAlto       = 3.0
)

const dataGeracaoLayout = "2006-01-02 15:04:05"

// Aggregator derives the dashboard document from a batch and an
// already-trained global fitter. It holds no mutable state across calls.
type Aggregator struct {
	fitter *model.Fitter
}

func New(fitter *model.Fitter) *Aggregator {
	return &Aggregator{fitter: fitter}
}

// Generate produces the full dashboard document. Pure function of the batch
// and the fitted global partition; classroom partitions are fitted on
// demand. Fails if the global fitter was never trained or loaded.
func (a *Aggregator) Generate(records []core.StudentRecord) (*core.Dashboard, error) {
	if len(records) == 0 {
		return nil, errors.New("empty batch")
	}

	labels, err := a.fitter.PredictGlobal(records)
	if err != nil {
		return nil, errors.Wrap(err, "assigning global clusters")
	}

	turmas := distinctTurmas(records)

	dashboard := &core.Dashboard{
		Metadata: core.Metadata{
			TotalAlunos: len(records),
			TotalTurmas: len(turmas),
			DataGeracao: time.Now().Format(dataGeracaoLayout),
		},
	}

	dashboard.ResumoGeral = a.resumoGeral(records)
	dashboard.ClustersGlobais = a.clustersGlobais(records, labels)

	dashboard.DadosPorTurma = make([]core.TurmaData, 0, len(turmas))
	for _, turma := range turmas {
		turmaData, err := a.turmaData(records, turma)
		if err != nil {
			return nil, errors.Wrapf(err, "aggregating turma %s", turma)
		}
		dashboard.DadosPorTurma = append(dashboard.DadosPorTurma, *turmaData)
	}

	dashboard.InsightsPrincipais = insights(dashboard.ResumoGeral.FatoresCriticos, len(records))

	return dashboard, nil
}

func (a *Aggregator) resumoGeral(records []core.StudentRecord) core.ResumoGeral {
	total := len(records)

	porFaixa := make([]core.FaixaResumo, 0, len(faixas))
	for _, faixa := range faixas {
		subset := filterFaixa(records, faixa)
		if len(subset) == 0 {
			continue
		}

		notas := grades(subset)
		porFaixa = append(porFaixa, core.FaixaResumo{
			Faixa: faixa,
			IntervaloNotas: core.IntervaloNotas{
				Min:     round2(minimum(notas)),
				Max:     round2(maximum(notas)),
				Media:   round2(mean(notas)),
				Mediana: round2(median(notas)),
			},
			TotalAlunos:     len(subset),
			Percentual:      pct(len(subset), total),
			PctTrabalha:     pct(countWorking(subset), len(subset)),
			RendaMedia:      round0(meanIncome(subset)),
			PctPretosPardos: pct(countNonReferenceRace(subset), len(subset)),
		})
	}

	fatores := core.FatoresCriticos{
		Trabalho:              countWorking(records),
		BaixaRenda:            countIf(records, func(r *core.StudentRecord) bool { return r.RendaFamiliar < rendaBaixaLimite }),
		DeslocamentoLongo:     countIf(records, func(r *core.StudentRecord) bool { return r.TempoDeslocamentoMin > deslocamentoLongoMin }),
		InsegAlimentar:        countFoodInsecure(records),
		SemInternet:           countIf(records, func(r *core.StudentRecord) bool { return r.AcessoInternet == core.CategoriaNao }),
		PretosPardosIndigenas: countNonReferenceRace(records),
	}

	return core.ResumoGeral{
		PorFaixa:        porFaixa,
		FatoresCriticos: fatores,
		AlunosRiscoAlto: countIf(records, func(r *core.StudentRecord) bool { return r.MediaGeral < mediaRiscoAlto }),
	}
}

// clustersGlobais builds one block per non-empty global cluster id; empty
// ids are omitted, never an error.
func (a *Aggregator) clustersGlobais(records []core.StudentRecord, labels []int) []core.ClusterGlobal {
	total := len(records)
	numClusters := a.fitter.Config().NumClustersGlobal

	out := make([]core.ClusterGlobal, 0, numClusters)
	for id := 0; id < numClusters; id++ {
		subset := filterCluster(records, labels, id)
		if len(subset) == 0 {
			continue
		}

		out = append(out, core.ClusterGlobal{
			ClusterID:   id,
			TotalAlunos: len(subset),
			Percentual:  pct(len(subset), total),
			Caracteristicas: core.CaracteristicasGlobal{
				MediaNotas:        round2(mean(grades(subset))),
				RendaMedia:        round0(meanIncome(subset)),
				PctTrabalha:       pct(countWorking(subset), len(subset)),
				TempoDeslMedio:    round0(meanCommute(subset)),
				PctPretosPardos:   pct(countNonReferenceRace(subset), len(subset)),
				PctInsegAlimentar: pct(countFoodInsecure(subset), len(subset)),
			},
			FeaturesRelevantes: featuresRelevantes(subset),
			Alunos:             details(subset),
		})
	}

	return out
}

func (a *Aggregator) turmaData(records []core.StudentRecord, turma string) (*core.TurmaData, error) {
	subset := filterIf(records, func(r *core.StudentRecord) bool { return r.Turma == turma })
	notas := grades(subset)

	turmaData := &core.TurmaData{
		Turma:       turma,
		TotalAlunos: len(subset),
		EstatisticasGerais: core.EstatisticasTurma{
			MediaTurma:      round2(mean(notas)),
			DesvioPadrao:    round2(sampleStdDev(notas)),
			NotaMinima:      round2(minimum(notas)),
			NotaMaxima:      round2(maximum(notas)),
			PctTrabalha:     pct(countWorking(subset), len(subset)),
			RendaMedia:      round0(meanIncome(subset)),
			PctPretosPardos: pct(countNonReferenceRace(subset), len(subset)),
		},
		DistribuicaoFaixas: make(map[string]core.FaixaDistribuicao, len(faixas)),
		ClustersTurma:      make([]core.ClusterTurma, 0),
	}

	for _, faixa := range faixas {
		count := len(filterFaixa(subset, faixa))
		turmaData.DistribuicaoFaixas[faixa] = core.FaixaDistribuicao{
			Total:      count,
			Percentual: pct(count, len(subset)),
		}
	}

	partition, err := a.fitter.TrainTurmaClusters(records, turma)
	if err != nil {
		return nil, err
	}
	if partition == nil {
		// degenerate classroom: block stays, clusters list stays empty
		return turmaData, nil
	}

	labels, err := partition.Predict(subset)
	if err != nil {
		return nil, err
	}

	for id := 0; id < partition.NumClusters; id++ {
		members := filterCluster(subset, labels, id)
		if len(members) == 0 {
			continue
		}

		memberNotas := grades(members)
		turmaData.ClustersTurma = append(turmaData.ClustersTurma, core.ClusterTurma{
			ClusterID:   id,
			TotalAlunos: len(members),
			IntervaloNotas: core.IntervaloNotasCluster{
				Min:   round2(minimum(memberNotas)),
				Max:   round2(maximum(memberNotas)),
				Media: round2(mean(memberNotas)),
			},
			Caracteristicas: core.CaracteristicasTurma{
				RendaMedia:     round0(meanIncome(members)),
				PctTrabalha:    pct(countWorking(members), len(members)),
				TempoDeslMedio: round0(meanCommute(members)),
			},
			FeaturesRelevantes: featuresRelevantes(members),
			Alunos:             details(members),
		})
	}

	return turmaData, nil
}

// featuresRelevantes produces at most 3 natural-language flags for a
// cluster: exactly one performance flag, plus a work flag above 70% and a
// low-income flag below the income threshold.
func featuresRelevantes(subset []core.StudentRecord) []string {
	media := mean(grades(subset))
	pctTrabalha := float64(countWorking(subset)) / float64(len(subset)) * 100
	renda := meanIncome(subset)

	out := make([]string, 0, 3)
	switch {
	case media < 3:
		out = append(out, fmt.Sprintf("Desempenho crítico (média %s)", formatNota(media)))
	case media < 5:
		out = append(out, fmt.Sprintf("Desempenho abaixo da média (média %s)", formatNota(media)))
	default:
		out = append(out, fmt.Sprintf("Bom desempenho (média %s)", formatNota(media)))
	}

	if pctTrabalha > 70 {
		out = append(out, fmt.Sprintf("%d%% trabalha fora", int(round0(pctTrabalha))))
	}

	if renda < rendaBaixaLimite {
		out = append(out, fmt.Sprintf("Renda média baixa (R$%d)", int(renda)))
	}

	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// insights are five fixed-template headline strings computed from the
// critical-factor counts.
func insights(fatores core.FatoresCriticos, total int) []string {
	racePct := float64(fatores.PretosPardosIndigenas) / float64(total) * 100
	return []string{
		fmt.Sprintf("%d alunos são pretos/pardos/indígenas (%.1f%%)", fatores.PretosPardosIndigenas, round1(racePct)),
		fmt.Sprintf("%d alunos em insegurança alimentar", fatores.InsegAlimentar),
		fmt.Sprintf("%d alunos trabalham fora da escola", fatores.Trabalho),
		fmt.Sprintf("%d alunos com deslocamento > 60min", fatores.DeslocamentoLongo),
		fmt.Sprintf("%d alunos sem acesso à internet", fatores.SemInternet),
	}
}

func details(subset []core.StudentRecord) []core.StudentDetail {
	out := make([]core.StudentDetail, len(subset))
	for i, r := range subset {
		out[i] = r.Detail()
	}
	return out
}

func distinctTurmas(records []core.StudentRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Turma]; !ok {
			seen[r.Turma] = struct{}{}
			out = append(out, r.Turma)
		}
	}
	sort.Strings(out)
	return out
}
