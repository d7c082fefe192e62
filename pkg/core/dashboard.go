package core

import "math"

// Dashboard is the full aggregation output. Every leaf is a plain JSON
// scalar so the document can be handed to report generation and the
// presentation layer as-is.
type Dashboard struct {
	Metadata           Metadata        `json:"metadata"`
	ResumoGeral        ResumoGeral     `json:"resumo_geral"`
	ClustersGlobais    []ClusterGlobal `json:"clusters_globais"`
	DadosPorTurma      []TurmaData     `json:"dados_por_turma"`
	InsightsPrincipais []string        `json:"insights_principais"`
}

type Metadata struct {
	TotalAlunos int    `json:"total_alunos"`
	TotalTurmas int    `json:"total_turmas"`
	DataGeracao string `json:"data_geracao"`
}

type ResumoGeral struct {
	PorFaixa        []FaixaResumo   `json:"por_faixa"`
	FatoresCriticos FatoresCriticos `json:"fatores_criticos"`
	AlunosRiscoAlto int             `json:"alunos_risco_alto"`
}

type FaixaResumo struct {
	Faixa           string         `json:"faixa"`
	IntervaloNotas  IntervaloNotas `json:"intervalo_notas"`
	TotalAlunos     int            `json:"total_alunos"`
	Percentual      float64        `json:"percentual"`
	PctTrabalha     float64        `json:"pct_trabalha"`
	RendaMedia      float64        `json:"renda_media"`
	PctPretosPardos float64        `json:"pct_pretos_pardos"`
}

type IntervaloNotas struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Media   float64 `json:"media"`
	Mediana float64 `json:"mediana"`
}

// IntervaloNotasCluster is the per-classroom-cluster grade range. It has no
// median, matching the upstream document shape.
type IntervaloNotasCluster struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Media float64 `json:"media"`
}

// FatoresCriticos are population counts of socioeconomic risk indicators.
type FatoresCriticos struct {
	Trabalho              int `json:"trabalho"`
	BaixaRenda            int `json:"baixa_renda"`
	DeslocamentoLongo     int `json:"deslocamento_longo"`
	InsegAlimentar        int `json:"inseg_alimentar"`
	SemInternet           int `json:"sem_internet"`
	PretosPardosIndigenas int `json:"pretos_pardos_indigenas"`
}

type ClusterGlobal struct {
	ClusterID          int                   `json:"cluster_id"`
	TotalAlunos        int                   `json:"total_alunos"`
	Percentual         float64               `json:"percentual"`
	Caracteristicas    CaracteristicasGlobal `json:"caracteristicas"`
	FeaturesRelevantes []string              `json:"features_relevantes"`
	Alunos             []StudentDetail       `json:"alunos"`
}

type CaracteristicasGlobal struct {
	MediaNotas        float64 `json:"media_notas"`
	RendaMedia        float64 `json:"renda_media"`
	PctTrabalha       float64 `json:"pct_trabalha"`
	TempoDeslMedio    float64 `json:"tempo_desl_medio"`
	PctPretosPardos   float64 `json:"pct_pretos_pardos"`
	PctInsegAlimentar float64 `json:"pct_inseg_alimentar"`
}

type TurmaData struct {
	Turma              string                       `json:"turma"`
	TotalAlunos        int                          `json:"total_alunos"`
	EstatisticasGerais EstatisticasTurma            `json:"estatisticas_gerais"`
	DistribuicaoFaixas map[string]FaixaDistribuicao `json:"distribuicao_faixas"`
	ClustersTurma      []ClusterTurma               `json:"clusters_turma"`
}

type EstatisticasTurma struct {
	MediaTurma      float64 `json:"media_turma"`
	DesvioPadrao    float64 `json:"desvio_padrao"`
	NotaMinima      float64 `json:"nota_minima"`
	NotaMaxima      float64 `json:"nota_maxima"`
	PctTrabalha     float64 `json:"pct_trabalha"`
	RendaMedia      float64 `json:"renda_media"`
	PctPretosPardos float64 `json:"pct_pretos_pardos"`
}

type FaixaDistribuicao struct {
	Total      int     `json:"total"`
	Percentual float64 `json:"percentual"`
}

type ClusterTurma struct {
	ClusterID          int                   `json:"cluster_id"`
	TotalAlunos        int                   `json:"total_alunos"`
	IntervaloNotas     IntervaloNotasCluster `json:"intervalo_notas"`
	Caracteristicas    CaracteristicasTurma  `json:"caracteristicas"`
	FeaturesRelevantes []string              `json:"features_relevantes"`
	Alunos             []StudentDetail       `json:"alunos"`
}

type CaracteristicasTurma struct {
	RendaMedia     float64 `json:"renda_media"`
	PctTrabalha    float64 `json:"pct_trabalha"`
	TempoDeslMedio float64 `json:"tempo_desl_medio"`
}

// StudentDetail is the per-student pass-through record embedded in cluster
// blocks: every raw field, coerced to its output type.
type StudentDetail struct {
	ID             int    `json:"id"`
	Escola         string `json:"escola"`
	EnderecoEscola string `json:"endereco_escola"`
	Serie          string `json:"serie"`
	Turma          string `json:"turma"`

	NomeAluno     string `json:"nome_aluno"`
	Genero        string `json:"genero"`
	IdadeAluno    int    `json:"idade_aluno"`
	CPFAluno      string `json:"cpf_aluno"`
	TelefoneAluno string `json:"telefone_aluno"`

	EnderecoCompleto string `json:"endereco_completo"`
	Municipio        string `json:"municipio"`
	UF               string `json:"uf"`
	CEP              string `json:"cep"`
	Deficiencia      string `json:"deficiencia"`

	NomeResponsavel     string `json:"nome_responsavel"`
	Parentesco          string `json:"parentesco"`
	CPFResponsavel      string `json:"cpf_responsavel"`
	TelefoneResponsavel string `json:"telefone_responsavel"`

	Protocolo       string `json:"protocolo"`
	StatusMatricula string `json:"status_matricula"`

	RendaFamiliar        int    `json:"renda_familiar"`
	TemIrmaos            string `json:"tem_irmaos"`
	NumeroIrmaos         int    `json:"numero_irmaos"`
	IdadesIrmaos         string `json:"idades_irmaos"`
	TrabalhaFora         string `json:"trabalha_fora"`
	HorasTrabalhoSemana  int    `json:"horas_trabalho_semana"`
	TipoTrabalho         string `json:"tipo_trabalho"`
	TempoDeslocamentoMin int    `json:"tempo_deslocamento_min"`
	MeioTransporte       string `json:"meio_transporte"`
	AcessoInternet       string `json:"acesso_internet"`
	TemComputador        string `json:"tem_computador"`
	ApoioFamiliarEstudos string `json:"apoio_familiar_estudos"`
	FazRefeicaoEscola    string `json:"faz_refeicao_escola"`

	Matematica1Bim  float64 `json:"matematica_1bim"`
	Matematica2Bim  float64 `json:"matematica_2bim"`
	Matematica3Bim  float64 `json:"matematica_3bim"`
	Matematica4Bim  float64 `json:"matematica_4bim"`
	MediaMatematica float64 `json:"media_matematica"`
	Portugues1Bim   float64 `json:"portugues_1bim"`
	Portugues2Bim   float64 `json:"portugues_2bim"`
	Portugues3Bim   float64 `json:"portugues_3bim"`
	Portugues4Bim   float64 `json:"portugues_4bim"`
	MediaPortugues  float64 `json:"media_portugues"`
	MediaGeral      float64 `json:"media_geral"`

	FrequenciaPercentual int    `json:"frequencia_percentual"`
	CorRaca              string `json:"cor_raca"`

	AreaClimatica         string `json:"area_climatica"`
	ImpactoSeca           string `json:"impacto_seca"`
	AreaRiscoAmbiental    string `json:"area_risco_ambiental"`
	SegurancaTrajeto      string `json:"seguranca_trajeto"`
	RefeicoesDiarias      int    `json:"refeicoes_diarias"`
	SegurancaAlimentar    string `json:"seguranca_alimentar"`
	AmbienteFamiliar      string `json:"ambiente_familiar"`
	ResponsabilidadesCasa string `json:"responsabilidades_casa"`
}

// Detail coerces the record into its output form: counts and ids become
// integers, grade fields are rounded to 2 decimals, and absent optional
// fields get their documented defaults.
func (r StudentRecord) Detail() StudentDetail {
	areaRisco := r.AreaRiscoAmbiental
	if areaRisco == "" {
		areaRisco = CategoriaNao
	}

	return StudentDetail{
		ID:             r.ID,
		Escola:         r.Escola,
		EnderecoEscola: r.EnderecoEscola,
		Serie:          r.Serie,
		Turma:          r.Turma,

		NomeAluno:     r.NomeAluno,
		Genero:        r.Genero,
		IdadeAluno:    r.IdadeAluno,
		CPFAluno:      r.CPFAluno,
		TelefoneAluno: r.TelefoneAluno,

		EnderecoCompleto: r.EnderecoCompleto,
		Municipio:        r.Municipio,
		UF:               r.UF,
		CEP:              r.CEP,
		Deficiencia:      r.Deficiencia,

		NomeResponsavel:     r.NomeResponsavel,
		Parentesco:          r.Parentesco,
		CPFResponsavel:      r.CPFResponsavel,
		TelefoneResponsavel: r.TelefoneResponsavel,

		Protocolo:       r.Protocolo,
		StatusMatricula: r.StatusMatricula,

		RendaFamiliar:        int(r.RendaFamiliar),
		TemIrmaos:            r.TemIrmaos,
		NumeroIrmaos:         r.NumeroIrmaos,
		IdadesIrmaos:         r.IdadesIrmaos,
		TrabalhaFora:         r.TrabalhaFora,
		HorasTrabalhoSemana:  r.HorasTrabalhoSemana,
		TipoTrabalho:         r.TipoTrabalho,
		TempoDeslocamentoMin: int(r.TempoDeslocamentoMin),
		MeioTransporte:       r.MeioTransporte,
		AcessoInternet:       r.AcessoInternet,
		TemComputador:        r.TemComputador,
		ApoioFamiliarEstudos: r.ApoioFamiliarEstudos,
		FazRefeicaoEscola:    r.FazRefeicaoEscola,

		Matematica1Bim:  roundGrade(r.Matematica1Bim),
		Matematica2Bim:  roundGrade(r.Matematica2Bim),
		Matematica3Bim:  roundGrade(r.Matematica3Bim),
		Matematica4Bim:  roundGrade(r.Matematica4Bim),
		MediaMatematica: roundGrade(r.MediaMatematica),
		Portugues1Bim:   roundGrade(r.Portugues1Bim),
		Portugues2Bim:   roundGrade(r.Portugues2Bim),
		Portugues3Bim:   roundGrade(r.Portugues3Bim),
		Portugues4Bim:   roundGrade(r.Portugues4Bim),
		MediaPortugues:  roundGrade(r.MediaPortugues),
		MediaGeral:      roundGrade(r.MediaGeral),

		FrequenciaPercentual: int(r.FrequenciaPercentual),
		CorRaca:              r.CorRaca,

		AreaClimatica:         r.AreaClimatica,
		ImpactoSeca:           r.ImpactoSeca,
		AreaRiscoAmbiental:    areaRisco,
		SegurancaTrajeto:      r.SegurancaTrajeto,
		RefeicoesDiarias:      r.RefeicoesDiarias,
		SegurancaAlimentar:    r.SegurancaAlimentar,
		AmbienteFamiliar:      r.AmbienteFamiliar,
		ResponsabilidadesCasa: r.ResponsabilidadesCasa,
	}
}

func roundGrade(v float64) float64 {
	return math.Round(v*100) / 100
}
