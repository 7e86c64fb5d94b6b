package entity

import "time"

// Tipos de apoio à matrícula.
const (
	ApoioAEE              = "AEE"
	ApoioCuidador         = "CUIDADOR"
	ApoioInterpreteLibras = "INTERPRETE_LIBRAS"
	ApoioProfessorApoio   = "PROFESSOR_APOIO"
	ApoioTransporte       = "TRANSPORTE"
	ApoioRecurso          = "RECURSO"
	ApoioOutro            = "OUTRO"
)

// ApoioTipos lista os tipos aceitos.
var ApoioTipos = []string{
	ApoioAEE, ApoioCuidador, ApoioInterpreteLibras, ApoioProfessorApoio, ApoioTransporte, ApoioRecurso, ApoioOutro,
}

// TipoNecessidade catálogo global (TEA, TDAH, deficiência intelectual...).
type TipoNecessidade struct {
	ID        string
	Nome      string
	Ativo     bool
	CreatedAt time.Time
}

// AlunoNecessidade necessidade específica associada a um aluno.
type AlunoNecessidade struct {
	ID         string
	AlunoID    string
	TipoID     string
	TipoNome   string // preenchido em leituras
	CID        string
	Observacao string
	Ativo      bool
	CreatedAt  time.Time
}

// ApoioMatricula apoio oferecido em uma matrícula.
type ApoioMatricula struct {
	ID                  string
	MatriculaID         string
	Tipo                string
	Descricao           string
	CargaHorariaSemanal *int
	Ativo               bool
	CreatedAt           time.Time
}

// NecessidadeContagem linha do relatório de alunos por necessidade.
type NecessidadeContagem struct {
	TipoID   string
	TipoNome string
	Alunos   int
}
