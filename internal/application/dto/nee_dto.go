package dto

import "time"

// TurmaRequest criação de turma.
type TurmaRequest struct {
	UnidadeID string `json:"unidade_id" validate:"required,uuid"`
	Nome      string `json:"nome" validate:"required,max=80"`
	AnoLetivo int    `json:"ano_letivo" validate:"required,min=2000,max=2100"`
	Turno     string `json:"turno" validate:"required,oneof=MANHA TARDE NOITE INTEGRAL"`
}

// TurmaResponse turma.
type TurmaResponse struct {
	ID           string    `json:"id"`
	UnidadeID    string    `json:"unidade_id"`
	SecretariaID string    `json:"secretaria_id"`
	Nome         string    `json:"nome"`
	AnoLetivo    int       `json:"ano_letivo"`
	Turno        string    `json:"turno"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
}

// AlunoRequest cadastro/edição de aluno.
type AlunoRequest struct {
	Nome           string     `json:"nome" validate:"required,max=180"`
	DataNascimento *time.Time `json:"data_nascimento"`
	CPF            string     `json:"cpf" validate:"omitempty,max=14"`
	NIS            string     `json:"nis" validate:"omitempty,max=20"`
	NomeMae        string     `json:"nome_mae" validate:"omitempty,max=180"`
	NomePai        string     `json:"nome_pai" validate:"omitempty,max=180"`
	Telefone       string     `json:"telefone" validate:"omitempty,max=30"`
	Email          string     `json:"email" validate:"omitempty,email"`
	Endereco       string     `json:"endereco"`
	Ativo          *bool      `json:"ativo"`
}

// AlunoResponse aluno.
type AlunoResponse struct {
	ID             string     `json:"id"`
	MunicipioID    string     `json:"municipio_id"`
	Nome           string     `json:"nome"`
	DataNascimento *time.Time `json:"data_nascimento,omitempty"`
	CPF            string     `json:"cpf,omitempty"`
	NIS            string     `json:"nis,omitempty"`
	NomeMae        string     `json:"nome_mae,omitempty"`
	NomePai        string     `json:"nome_pai,omitempty"`
	Telefone       string     `json:"telefone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Endereco       string     `json:"endereco,omitempty"`
	Ativo          bool       `json:"ativo"`
	CreatedAt      time.Time  `json:"created_at"`
}

// MatriculaRequest vínculo do aluno a uma turma.
type MatriculaRequest struct {
	TurmaID       string     `json:"turma_id" validate:"required,uuid"`
	DataMatricula *time.Time `json:"data_matricula"`
	Observacao    string     `json:"observacao"`
}

// MatriculaSituacaoRequest mudança de situação.
type MatriculaSituacaoRequest struct {
	Situacao string `json:"situacao" validate:"required,oneof=ATIVA TRANSFERIDO CONCLUIDO EVADIDO CANCELADO"`
}

// MatriculaResponse matrícula.
type MatriculaResponse struct {
	ID            string     `json:"id"`
	AlunoID       string     `json:"aluno_id"`
	TurmaID       string     `json:"turma_id"`
	TurmaNome     string     `json:"turma_nome"`
	UnidadeID     string     `json:"unidade_id"`
	DataMatricula *time.Time `json:"data_matricula,omitempty"`
	Situacao      string     `json:"situacao"`
	Observacao    string     `json:"observacao"`
}

// TipoNecessidadeRequest catálogo de necessidades.
type TipoNecessidadeRequest struct {
	Nome  string `json:"nome" validate:"required,max=120"`
	Ativo *bool  `json:"ativo"`
}

// TipoNecessidadeResponse tipo de necessidade.
type TipoNecessidadeResponse struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Ativo bool   `json:"ativo"`
}

// NecessidadeRequest necessidade do aluno.
type NecessidadeRequest struct {
	TipoID     string `json:"tipo_id" validate:"required,uuid"`
	CID        string `json:"cid" validate:"omitempty,max=20"`
	Observacao string `json:"observacao"`
	Ativo      *bool  `json:"ativo"`
}

// NecessidadeResponse necessidade do aluno.
type NecessidadeResponse struct {
	ID         string `json:"id"`
	AlunoID    string `json:"aluno_id"`
	TipoID     string `json:"tipo_id"`
	TipoNome   string `json:"tipo_nome"`
	CID        string `json:"cid"`
	Observacao string `json:"observacao"`
	Ativo      bool   `json:"ativo"`
}

// ApoioRequest apoio em uma matrícula do aluno.
type ApoioRequest struct {
	MatriculaID         string `json:"matricula_id" validate:"required,uuid"`
	Tipo                string `json:"tipo" validate:"required,oneof=AEE CUIDADOR INTERPRETE_LIBRAS PROFESSOR_APOIO TRANSPORTE RECURSO OUTRO"`
	Descricao           string `json:"descricao"`
	CargaHorariaSemanal *int   `json:"carga_horaria_semanal" validate:"omitempty,min=0"`
	Ativo               *bool  `json:"ativo"`
}

// ApoioResponse apoio.
type ApoioResponse struct {
	ID                  string `json:"id"`
	MatriculaID         string `json:"matricula_id"`
	Tipo                string `json:"tipo"`
	Descricao           string `json:"descricao"`
	CargaHorariaSemanal *int   `json:"carga_horaria_semanal,omitempty"`
	Ativo               bool   `json:"ativo"`
}

// AlunoNEEResponse resumo NEE do aluno.
type AlunoNEEResponse struct {
	Aluno        AlunoResponse         `json:"aluno"`
	Necessidades []NecessidadeResponse `json:"necessidades"`
	Matriculas   []MatriculaResponse   `json:"matriculas"`
	ApoiosAtivos []ApoioResponse       `json:"apoios_ativos"`
}

// NecessidadeContagemResponse linha do relatório por tipo.
type NecessidadeContagemResponse struct {
	TipoID   string `json:"tipo_id"`
	TipoNome string `json:"tipo_nome"`
	Alunos   int    `json:"alunos"`
}
