// Package feature derives the fixed numeric feature vector used by every
// clustering step from raw student records.
package feature

import (
	"github.com/edusegment/student-cohorts/pkg/core"
)

// WorkIndicator is 1 iff the student reports working outside home. A
// pre-derived column on the record wins over the raw field.
func WorkIndicator(r *core.StudentRecord) float64 {
	if r.TrabalhaNum != nil {
		return *r.TrabalhaNum
	}
	if r.TrabalhaFora == core.CategoriaSim {
		return 1
	}
	return 0
}

// InternetIndicator is 0 only for an explicit "Não"; partial or ambiguous
// categories count as access. Derived and carried on the record for
// downstream consumers, but not part of the clustering feature vector.
func InternetIndicator(r *core.StudentRecord) float64 {
	if r.TemInternetNum != nil {
		return *r.TemInternetNum
	}
	if r.AcessoInternet == core.CategoriaNao {
		return 0
	}
	return 1
}

// RaceIndicator collapses the reference category to 0 and every other
// mapped category to 1. Unmapped categories default to 0.
func RaceIndicator(r *core.StudentRecord) float64 {
	if r.CorRacaNum != nil {
		return *r.CorRacaNum
	}
	return core.RacaNum[r.CorRaca]
}

// FoodInsecurityOrdinal maps the food-security category to its 4-level
// ordinal. Unmapped categories default to 0.
func FoodInsecurityOrdinal(r *core.StudentRecord) float64 {
	if r.SegAlimentarNum != nil {
		return *r.SegAlimentarNum
	}
	return core.SegAlimentarNum[r.SegurancaAlimentar]
}

// Vector builds one student's clustering features in core.FeatureNames
// order. Missing raw numerics are already zero-valued on the record.
func Vector(r *core.StudentRecord) core.FeatureVector {
	return core.FeatureVector{
		r.MediaGeral,
		r.RendaFamiliar,
		WorkIndicator(r),
		r.TempoDeslocamentoMin,
		RaceIndicator(r),
		FoodInsecurityOrdinal(r),
	}
}

// Matrix derives the feature table for a batch, one row per record. The
// input is never mutated.
func Matrix(records []core.StudentRecord) [][]float64 {
	rows := make([][]float64, len(records))
	for i := range records {
		v := Vector(&records[i])
		row := make([]float64, core.NumFeatures)
		copy(row, v[:])
		rows[i] = row
	}
	return rows
}

// Enrich returns a copy of the batch with the four indicator columns
// populated. Records that already carry a column keep its value, so the
// transform is idempotent. The caller's slice is left untouched.
func Enrich(records []core.StudentRecord) []core.StudentRecord {
	out := make([]core.StudentRecord, len(records))
	copy(out, records)
	for i := range out {
		r := &out[i]
		if r.TrabalhaNum == nil {
			v := WorkIndicator(r)
			r.TrabalhaNum = &v
		}
		if r.TemInternetNum == nil {
			v := InternetIndicator(r)
			r.TemInternetNum = &v
		}
		if r.CorRacaNum == nil {
			v := RaceIndicator(r)
			r.CorRacaNum = &v
		}
		if r.SegAlimentarNum == nil {
			v := FoodInsecurityOrdinal(r)
			r.SegAlimentarNum = &v
		}
	}
	return out
}
