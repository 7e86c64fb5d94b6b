package entity

import "time"

// Turnos de turma.
const (
	TurnoManha    = "MANHA"
	TurnoTarde    = "TARDE"
	TurnoNoite    = "NOITE"
	TurnoIntegral = "INTEGRAL"
)

// Turnos lista os turnos aceitos.
var Turnos = []string{TurnoManha, TurnoTarde, TurnoNoite, TurnoIntegral}

// Situações de matrícula.
const (
	MatriculaAtiva       = "ATIVA"
	MatriculaTransferido = "TRANSFERIDO"
	MatriculaConcluido   = "CONCLUIDO"
	MatriculaEvadido     = "EVADIDO"
	MatriculaCancelado   = "CANCELADO"
)

// MatriculaSituacoes lista as situações aceitas.
var MatriculaSituacoes = []string{
	MatriculaAtiva, MatriculaTransferido, MatriculaConcluido, MatriculaEvadido, MatriculaCancelado,
}

// Turma de uma unidade escolar em um ano letivo.
type Turma struct {
	ID           string
	UnidadeID    string
	SecretariaID string // derivado
	MunicipioID  string // derivado
	Nome         string
	AnoLetivo    int
	Turno        string
	Ativo        bool
	CreatedAt    time.Time
}

// Aluno cadastro do estudante no município.
type Aluno struct {
	ID             string
	MunicipioID    string
	Nome           string
	DataNascimento *time.Time
	CPF            string
	NIS            string
	NomeMae        string
	NomePai        string
	Telefone       string
	Email          string
	Endereco       string
	Ativo          bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Matricula vínculo aluno ⇄ turma.
type Matricula struct {
	ID            string
	AlunoID       string
	TurmaID       string
	TurmaNome     string // preenchido em leituras
	UnidadeID     string // derivado
	DataMatricula *time.Time
	Situacao      string
	Observacao    string
	CreatedAt     time.Time
}
