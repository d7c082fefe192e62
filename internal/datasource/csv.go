package datasource

import (
	"encoding/csv"
	"io"
	"log"
	"os"

	"github.com/edusegment/student-cohorts/pkg/core"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// NewCSVSource reads records from a header-mapped delimited file. Optional
// columns may be absent entirely; malformed numeric cells are logged and
// read as 0 so a bad cell never drops a row.
func NewCSVSource(path string) RecordSource {
	return &csvSource{
		path:   path,
		logger: log.New(os.Stdout, "csv: ", log.LstdFlags|log.Lmsgprefix),
	}
}

type csvSource struct {
	path   string
	logger *log.Logger
}

func (s *csvSource) Read() ([]core.StudentRecord, error) {
	fin, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "opening csv file")
	}
	defer func() {
		_ = fin.Close()
	}()

	reader := csv.NewReader(fin)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	records := make([]core.StudentRecord, 0, 64)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading csv line %d", line+1)
		}
		line++
		records = append(records, s.parseRow(&row{index: index, cells: record, line: line, logger: s.logger}))
	}

	return records, nil
}

func (s *csvSource) parseRow(r *row) core.StudentRecord {
	return core.StudentRecord{
		ID:             r.toInt("ID"),
		Escola:         r.str("Escola"),
		EnderecoEscola: r.str("Endereco_Escola"),
		Serie:          r.str("Serie"),
		Turma:          r.str("Turma"),

		NomeAluno:     r.str("Nome_Aluno"),
		Genero:        r.str("Genero"),
		IdadeAluno:    r.toInt("Idade_Aluno"),
		CPFAluno:      r.str("CPF_Aluno"),
		TelefoneAluno: r.str("Telefone_Aluno"),

		EnderecoCompleto: r.str("Endereco_Completo"),
		Municipio:        r.str("Municipio"),
		UF:               r.str("UF"),
		CEP:              r.str("CEP"),
		Deficiencia:      r.str("Deficiencia"),

		NomeResponsavel:     r.str("Nome_Responsavel"),
		Parentesco:          r.str("Parentesco"),
		CPFResponsavel:      r.str("CPF_Responsavel"),
		TelefoneResponsavel: r.str("Telefone_Responsavel"),

		Protocolo:       r.str("Protocolo"),
		StatusMatricula: r.str("Status_Matricula"),

		RendaFamiliar:        r.toFloat("Renda_Familiar"),
		TemIrmaos:            r.str("Tem_Irmaos"),
		NumeroIrmaos:         r.toInt("Numero_Irmaos"),
		IdadesIrmaos:         r.str("Idades_Irmaos"),
		TrabalhaFora:         r.str("Trabalha_Fora"),
		HorasTrabalhoSemana:  r.toInt("Horas_Trabalho_Semana"),
		TipoTrabalho:         r.str("Tipo_Trabalho"),
		TempoDeslocamentoMin: r.toFloat("Tempo_Deslocamento_Min"),
		MeioTransporte:       r.str("Meio_Transporte"),
		AcessoInternet:       r.str("Acesso_Internet"),
		TemComputador:        r.str("Tem_Computador"),
		ApoioFamiliarEstudos: r.str("Apoio_Familiar_Estudos"),
		FazRefeicaoEscola:    r.str("Faz_Refeicao_Escola"),

		Matematica1Bim:  r.toFloat("Matematica_1Bim"),
		Matematica2Bim:  r.toFloat("Matematica_2Bim"),
		Matematica3Bim:  r.toFloat("Matematica_3Bim"),
		Matematica4Bim:  r.toFloat("Matematica_4Bim"),
		MediaMatematica: r.toFloat("Media_Matematica"),
		Portugues1Bim:   r.toFloat("Portugues_1Bim"),
		Portugues2Bim:   r.toFloat("Portugues_2Bim"),
		Portugues3Bim:   r.toFloat("Portugues_3Bim"),
		Portugues4Bim:   r.toFloat("Portugues_4Bim"),
		MediaPortugues:  r.toFloat("Media_Portugues"),
		MediaGeral:      r.toFloat("Media_Geral"),

		FrequenciaPercentual: r.toFloat("Frequencia_Percentual"),
		CorRaca:              r.str("Cor_Raca"),

		AreaClimatica:         r.str("Area_Climatica"),
		ImpactoSeca:           r.str("Impacto_Seca"),
		AreaRiscoAmbiental:    r.str("Area_Risco_Ambiental"),
		SegurancaTrajeto:      r.str("Seguranca_Trajeto"),
		RefeicoesDiarias:      r.toInt("Refeicoes_Diarias"),
		SegurancaAlimentar:    r.str("Seguranca_Alimentar"),
		AmbienteFamiliar:      r.str("Ambiente_Familiar"),
		ResponsabilidadesCasa: r.str("Responsabilidades_Casa"),

		TrabalhaNum:     r.optFloat("Trabalha_Num"),
		TemInternetNum:  r.optFloat("Tem_Internet_Num"),
		CorRacaNum:      r.optFloat("Cor_Raca_Num"),
		SegAlimentarNum: r.optFloat("Seg_Alimentar_Num"),
	}
}

// row gives permissive, header-mapped access to one CSV record.
type row struct {
	index  map[string]int
	cells  []string
	line   int
	logger *log.Logger
}

func (r *row) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func (r *row) toFloat(col string) float64 {
	raw := r.str(col)
	if raw == "" {
		return 0
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		r.logger.Printf("line %d: column %s has bad value %q, using 0", r.line, col, raw)
		return 0
	}
	return v
}

func (r *row) toInt(col string) int {
	return int(r.toFloat(col))
}

// optFloat distinguishes an absent column (nil) from a present value, so
// pre-derived indicator columns keep their presence semantics.
func (r *row) optFloat(col string) *float64 {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) || r.cells[i] == "" {
		return nil
	}
	v := r.toFloat(col)
	return &v
}
