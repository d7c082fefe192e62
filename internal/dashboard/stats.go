package dashboard

import (
	"math"
	"sort"
	"strconv"

	"github.com/edusegment/student-cohorts/pkg/core"
	"gonum.org/v1/gonum/stat"
)

// Rounding conventions: percentages to 1 decimal, grades to 2, income and
// commute means to the nearest integer.

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round0(v float64) float64 {
	return math.Round(v)
}

func pct(part, total int) float64 {
	return round1(float64(part) / float64(total) * 100)
}

// formatNota renders an already-rounded grade without trailing zeros, the
// way the document templates expect (3.5, not 3.50).
func formatNota(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func mean(vals []float64) float64 {
	return stat.Mean(vals, nil)
}

// sampleStdDev is the n-1 standard deviation; 0 for fewer than 2 samples
// so the document never carries NaN.
func sampleStdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	return stat.StdDev(vals, nil)
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func minimum(vals []float64) float64 {
	out := vals[0]
	for _, v := range vals[1:] {
		if v < out {
			out = v
		}
	}
	return out
}

func maximum(vals []float64) float64 {
	out := vals[0]
	for _, v := range vals[1:] {
		if v > out {
			out = v
		}
	}
	return out
}

func grades(records []core.StudentRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.MediaGeral
	}
	return out
}

func meanIncome(records []core.StudentRecord) float64 {
	vals := make([]float64, len(records))
	for i, r := range records {
		vals[i] = r.RendaFamiliar
	}
	return mean(vals)
}

func meanCommute(records []core.StudentRecord) float64 {
	vals := make([]float64, len(records))
	for i, r := range records {
		vals[i] = r.TempoDeslocamentoMin
	}
	return mean(vals)
}

func countIf(records []core.StudentRecord, pred func(*core.StudentRecord) bool) int {
	count := 0
	for i := range records {
		if pred(&records[i]) {
			count++
		}
	}
	return count
}

func countWorking(records []core.StudentRecord) int {
	return countIf(records, func(r *core.StudentRecord) bool {
		return r.TrabalhaFora == core.CategoriaSim
	})
}

// countNonReferenceRace counts membership in the named non-reference
// categories of the raw field, not the derived indicator: an unmapped
// category counts in neither.
func countNonReferenceRace(records []core.StudentRecord) int {
	return countIf(records, func(r *core.StudentRecord) bool {
		return r.CorRaca == core.RacaPreta || r.CorRaca == core.RacaParda || r.CorRaca == core.RacaIndigena
	})
}

func countFoodInsecure(records []core.StudentRecord) int {
	return countIf(records, func(r *core.StudentRecord) bool {
		return r.SegurancaAlimentar != core.SegAlimentarSegura
	})
}

func filterIf(records []core.StudentRecord, pred func(*core.StudentRecord) bool) []core.StudentRecord {
	out := make([]core.StudentRecord, 0, len(records))
	for i := range records {
		if pred(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

func filterFaixa(records []core.StudentRecord, faixa string) []core.StudentRecord {
	return filterIf(records, func(r *core.StudentRecord) bool {
		return Faixa(r.MediaGeral) == faixa
	})
}

func filterCluster(records []core.StudentRecord, labels []int, id int) []core.StudentRecord {
	out := make([]core.StudentRecord, 0, len(records))
	for i := range records {
		if labels[i] == id {
			out = append(out, records[i])
		}
	}
	return out
}
