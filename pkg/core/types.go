package core

// Categorical values used by the upstream dataset.
const (
	CategoriaSim = "Sim"
	CategoriaNao = "Não"
)

// Race/color categories. Branca is the reference category of the binary
// indicator; every other mapped category collapses to 1.
const (
	RacaBranca   = "Branca"
	RacaPreta    = "Preta"
	RacaParda    = "Parda"
	RacaIndigena = "Indígena"
)

// Food security levels, ordered from secure to severe insecurity.
const (
	SegAlimentarSegura   = "Segura"
	SegAlimentarLeve     = "Leve Insegurança"
	SegAlimentarModerada = "Moderada Insegurança"
	SegAlimentarGrave    = "Grave Insegurança"
)

// RacaNum encodes the race indicator. Categories outside the map have no
// encoding and default to 0 at feature-derivation time.
var RacaNum = map[string]float64{
	RacaBranca:   0,
	RacaPreta:    1,
	RacaParda:    1,
	RacaIndigena: 1,
}

// SegAlimentarNum encodes the food-security ordinal. Unmapped categories
// default to 0 at feature-derivation time.
var SegAlimentarNum = map[string]float64{
	SegAlimentarSegura:   0,
	SegAlimentarLeve:     1,
	SegAlimentarModerada: 2,
	SegAlimentarGrave:    3,
}

// NumFeatures is the width of the clustering feature vector.
const NumFeatures = 6

// FeatureNames lists the clustering features in fit order. The order and
// count are part of the fit/predict contract: a fitted model only accepts
// vectors built in this exact sequence.
var FeatureNames = []string{
	"Media_Geral",
	"Renda_Familiar",
	"Trabalha_Num",
	"Tempo_Deslocamento_Min",
	"Cor_Raca_Num",
	"Seg_Alimentar_Num",
}

// FeatureVector is one student's derived clustering features, in
// FeatureNames order.
type FeatureVector [NumFeatures]float64

// StudentRecord is one raw input row. Categorical fields keep the upstream
// string values; the four *float64 fields are indicator columns that a
// source may already carry pre-derived. Nil means the column was absent and
// the value must be derived from the raw field.
type StudentRecord struct {
	ID             int
	Escola         string
	EnderecoEscola string
	Serie          string
	Turma          string

	NomeAluno     string
	Genero        string
	IdadeAluno    int
	CPFAluno      string
	TelefoneAluno string

	EnderecoCompleto string
	Municipio        string
	UF               string
	CEP              string
	Deficiencia      string

	NomeResponsavel     string
	Parentesco          string
	CPFResponsavel      string
	TelefoneResponsavel string

	Protocolo       string
	StatusMatricula string

	RendaFamiliar        float64
	TemIrmaos            string
	NumeroIrmaos         int
	IdadesIrmaos         string
	TrabalhaFora         string
	HorasTrabalhoSemana  int
	TipoTrabalho         string
	TempoDeslocamentoMin float64
	MeioTransporte       string
	AcessoInternet       string
	TemComputador        string
	ApoioFamiliarEstudos string
	FazRefeicaoEscola    string

	Matematica1Bim  float64
	Matematica2Bim  float64
	Matematica3Bim  float64
	Matematica4Bim  float64
	MediaMatematica float64
	Portugues1Bim   float64
	Portugues2Bim   float64
	Portugues3Bim   float64
	Portugues4Bim   float64
	MediaPortugues  float64
	MediaGeral      float64

	FrequenciaPercentual float64
	CorRaca              string

	AreaClimatica         string
	ImpactoSeca           string
	AreaRiscoAmbiental    string
	SegurancaTrajeto      string
	RefeicoesDiarias      int
	SegurancaAlimentar    string
	AmbienteFamiliar      string
	ResponsabilidadesCasa string

	TrabalhaNum     *float64
	TemInternetNum  *float64
	CorRacaNum      *float64
	SegAlimentarNum *float64
}
