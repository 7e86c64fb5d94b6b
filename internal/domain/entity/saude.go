package entity

import "time"

// Cargos do profissional de saúde.
const (
	CargoMedico     = "MEDICO"
	CargoEnfermeiro = "ENFERMEIRO"
	CargoTecnico    = "TECNICO"
	CargoAgente     = "AGENTE"
	CargoAdmin      = "ADMIN"
	CargoOutros     = "OUTROS"
)

// CargosSaude cargos aceitos.
var CargosSaude = []string{CargoMedico, CargoEnfermeiro, CargoTecnico, CargoAgente, CargoAdmin, CargoOutros}

// Tipos de agendamento.
const (
	AgendamentoPrimeiraConsulta = "PRIMEIRA_CONSULTA"
	AgendamentoRetorno          = "RETORNO"
	AgendamentoProcedimento     = "PROCEDIMENTO"
	AgendamentoEncaixe          = "ENCAIXE"
)

// AgendamentoTipos tipos aceitos.
var AgendamentoTipos = []string{AgendamentoPrimeiraConsulta, AgendamentoRetorno, AgendamentoProcedimento, AgendamentoEncaixe}

// Status de agendamento.
const (
	AgendamentoMarcado    = "MARCADO"
	AgendamentoConfirmado = "CONFIRMADO"
	AgendamentoAtendido   = "ATENDIDO"
	AgendamentoFalta      = "FALTA"
	AgendamentoCancelado  = "CANCELADO"
)

// Tipos de atendimento.
const (
	AtendimentoConsulta     = "CONSULTA"
	AtendimentoProcedimento = "PROCEDIMENTO"
	AtendimentoVacina       = "VACINA"
	AtendimentoVisita       = "VISITA"
	AtendimentoTriagem      = "TRIAGEM"
	AtendimentoOutros       = "OUTROS"
)

// AtendimentoTipos tipos aceitos.
var AtendimentoTipos = []string{
	AtendimentoConsulta, AtendimentoProcedimento, AtendimentoVacina, AtendimentoVisita, AtendimentoTriagem, AtendimentoOutros,
}

// ProfissionalSaude profissional lotado numa unidade de saúde.
type ProfissionalSaude struct {
	ID                  string
	MunicipioID         string
	SecretariaID        string
	UnidadeID           string
	Nome                string
	CPF                 string
	Cargo               string
	ConselhoNumero      string
	CBO                 string
	CargaHorariaSemanal int
	Ativo               bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AgendamentoSaude horário marcado com um profissional.
type AgendamentoSaude struct {
	ID             string
	MunicipioID    string
	SecretariaID   string
	UnidadeID      string
	ProfissionalID string
	AlunoID        string
	PacienteNome   string
	PacienteCPF    string
	Inicio         time.Time
	Fim            time.Time
	Tipo           string
	Status         string
	Motivo         string
	CriadoPor      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AtendimentoSaude registro do atendimento realizado.
type AtendimentoSaude struct {
	ID             string
	MunicipioID    string
	SecretariaID   string
	UnidadeID      string
	ProfissionalID string
	AgendamentoID  string
	AlunoID        string
	PacienteNome   string
	PacienteCPF    string
	Data           time.Time
	Tipo           string
	Observacoes    string
	CID            string
	CriadoPor      string
	CreatedAt      time.Time
}
