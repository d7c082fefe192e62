package datasource

import (
	"log"
	"os"
	"time"

	"github.com/edusegment/student-cohorts/pkg/core"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBSource reads the student table maintained by the surrounding system
// from Postgres. Read-only; schema ownership stays with that system.
func NewDBSource(dsn string) (RecordSource, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "", 0), logger.Config{
			LogLevel: logger.Silent,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	return &dbSource{
		db:     db,
		logger: log.New(os.Stdout, "db: ", log.LstdFlags|log.Lmsgprefix),
	}, nil
}

type dbSource struct {
	db     *gorm.DB
	logger *log.Logger
}

// studentRow mirrors the columns of the upstream students table this
// source consumes. Fields the table does not track (race, food security)
// stay at their zero value and derive to 0 downstream.
type studentRow struct {
	ID                   int
	Turma                string `gorm:"column:turma"`
	SchoolName           string `gorm:"column:school_name"`
	Name                 string
	Gender               string
	BirthDate            *time.Time `gorm:"column:birth_date"`
	CPF                  string     `gorm:"column:cpf"`
	Phone                string
	AddressStreet        string `gorm:"column:address_street"`
	AddressCity          string `gorm:"column:address_city"`
	AddressState         string `gorm:"column:address_state"`
	AddressZip           string `gorm:"column:address_zip"`
	GuardianName         string `gorm:"column:guardian_name"`
	GuardianRelationship string `gorm:"column:guardian_relationship"`
	GuardianCPF          string `gorm:"column:guardian_cpf"`
	GuardianPhone        string `gorm:"column:guardian_phone"`
	EnrollmentProtocol   string `gorm:"column:enrollment_protocol"`
	EnrollmentStatus     string `gorm:"column:enrollment_status"`
	FamilyIncome         float64 `gorm:"column:family_income"`
	HasSiblings          bool    `gorm:"column:has_siblings"`
	NumberOfSiblings     int     `gorm:"column:number_of_siblings"`
	SiblingsAges         string  `gorm:"column:siblings_ages"`
	WorksOutside         bool    `gorm:"column:works_outside"`
	WorkHoursPerWeek     int     `gorm:"column:work_hours_per_week"`
	WorkType             string  `gorm:"column:work_type"`
	CommuteTimeMinutes   float64 `gorm:"column:commute_time_minutes"`
	TransportType        string  `gorm:"column:transport_type"`
	HasInternet          bool    `gorm:"column:has_internet"`
	HasComputer          bool    `gorm:"column:has_computer"`
	HasFamilySupport     bool    `gorm:"column:has_family_support"`
	HasSchoolMeals       bool    `gorm:"column:has_school_meals"`
	MathGrade            float64 `gorm:"column:math_grade"`
	PortugueseGrade      float64 `gorm:"column:portuguese_grade"`
	OverallAverage       float64 `gorm:"column:overall_average"`
	AttendancePercentage float64 `gorm:"column:attendance_percentage"`
}

func (s *dbSource) Read() ([]core.StudentRecord, error) {
	rows := make([]studentRow, 0)
	err := s.db.Table("students").
		Select("students.*, classes.name AS turma").
		Joins("LEFT JOIN classes ON classes.id = students.class_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	s.logger.Printf("loaded %d students from database", len(rows))

	records := make([]core.StudentRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	return records, nil
}

func (r *studentRow) toRecord() core.StudentRecord {
	return core.StudentRecord{
		ID:     r.ID,
		Escola: r.SchoolName,
		Turma:  r.Turma,

		NomeAluno:     r.Name,
		Genero:        r.Gender,
		IdadeAluno:    ageFrom(r.BirthDate),
		CPFAluno:      r.CPF,
		TelefoneAluno: r.Phone,

		EnderecoCompleto: r.AddressStreet,
		Municipio:        r.AddressCity,
		UF:               r.AddressState,
		CEP:              r.AddressZip,

		NomeResponsavel:     r.GuardianName,
		Parentesco:          r.GuardianRelationship,
		CPFResponsavel:      r.GuardianCPF,
		TelefoneResponsavel: r.GuardianPhone,

		Protocolo:       r.EnrollmentProtocol,
		StatusMatricula: r.EnrollmentStatus,

		RendaFamiliar:        r.FamilyIncome,
		TemIrmaos:            simNao(r.HasSiblings),
		NumeroIrmaos:         r.NumberOfSiblings,
		IdadesIrmaos:         r.SiblingsAges,
		TrabalhaFora:         simNao(r.WorksOutside),
		HorasTrabalhoSemana:  r.WorkHoursPerWeek,
		TipoTrabalho:         r.WorkType,
		TempoDeslocamentoMin: r.CommuteTimeMinutes,
		MeioTransporte:       r.TransportType,
		AcessoInternet:       simNao(r.HasInternet),
		TemComputador:        simNao(r.HasComputer),
		ApoioFamiliarEstudos: simNao(r.HasFamilySupport),
		FazRefeicaoEscola:    simNao(r.HasSchoolMeals),

		MediaMatematica:      r.MathGrade,
		MediaPortugues:       r.PortugueseGrade,
		MediaGeral:           r.OverallAverage,
		FrequenciaPercentual: r.AttendancePercentage,
	}
}

func simNao(v bool) string {
	if v {
		return core.CategoriaSim
	}
	return core.CategoriaNao
}

func ageFrom(birthDate *time.Time) int {
	if birthDate == nil {
		return 0
	}
	now := time.Now()
	age := now.Year() - birthDate.Year()
	if now.YearDay() < birthDate.YearDay() {
		age--
	}
	return age
}
