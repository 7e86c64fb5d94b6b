package dto

import "time"

// ProfissionalSaudeRequest cadastro/edição de profissional.
type ProfissionalSaudeRequest struct {
	UnidadeID           string `json:"unidade_id" validate:"required,uuid"`
	Nome                string `json:"nome" validate:"required,max=180"`
	CPF                 string `json:"cpf" validate:"omitempty,max=14"`
	Cargo               string `json:"cargo" validate:"omitempty,oneof=MEDICO ENFERMEIRO TECNICO AGENTE ADMIN OUTROS"`
	ConselhoNumero      string `json:"conselho_numero" validate:"omitempty,max=40"`
	CBO                 string `json:"cbo" validate:"omitempty,max=10"`
	CargaHorariaSemanal int    `json:"carga_horaria_semanal" validate:"omitempty,min=1,max=60"`
	Ativo               *bool  `json:"ativo"`
}

// ProfissionalSaudeResponse profissional.
type ProfissionalSaudeResponse struct {
	ID                  string    `json:"id"`
	UnidadeID           string    `json:"unidade_id"`
	SecretariaID        string    `json:"secretaria_id"`
	Nome                string    `json:"nome"`
	CPF                 string    `json:"cpf,omitempty"`
	Cargo               string    `json:"cargo"`
	ConselhoNumero      string    `json:"conselho_numero,omitempty"`
	CBO                 string    `json:"cbo,omitempty"`
	CargaHorariaSemanal int       `json:"carga_horaria_semanal"`
	Ativo               bool      `json:"ativo"`
	CreatedAt           time.Time `json:"created_at"`
}

// AgendamentoSaudeRequest marcação de horário.
type AgendamentoSaudeRequest struct {
	UnidadeID      string    `json:"unidade_id" validate:"required,uuid"`
	ProfissionalID string    `json:"profissional_id" validate:"required,uuid"`
	AlunoID        string    `json:"aluno_id" validate:"omitempty,uuid"`
	PacienteNome   string    `json:"paciente_nome" validate:"required,max=180"`
	PacienteCPF    string    `json:"paciente_cpf" validate:"omitempty,max=14"`
	Inicio         time.Time `json:"inicio" validate:"required"`
	Fim            time.Time `json:"fim" validate:"required"`
	Tipo           string    `json:"tipo" validate:"omitempty,oneof=PRIMEIRA_CONSULTA RETORNO PROCEDIMENTO ENCAIXE"`
	Motivo         string    `json:"motivo"`
}

// AgendamentoStatusRequest mudança de status do agendamento.
type AgendamentoStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMADO ATENDIDO FALTA CANCELADO"`
	Motivo string `json:"motivo"`
}

// AgendamentoSaudeResponse agendamento.
type AgendamentoSaudeResponse struct {
	ID             string    `json:"id"`
	UnidadeID      string    `json:"unidade_id"`
	ProfissionalID string    `json:"profissional_id"`
	AlunoID        string    `json:"aluno_id,omitempty"`
	PacienteNome   string    `json:"paciente_nome"`
	PacienteCPF    string    `json:"paciente_cpf,omitempty"`
	Inicio         time.Time `json:"inicio"`
	Fim            time.Time `json:"fim"`
	Tipo           string    `json:"tipo"`
	Status         string    `json:"status"`
	Motivo         string    `json:"motivo,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AtendimentoSaudeRequest registro de atendimento.
type AtendimentoSaudeRequest struct {
	UnidadeID      string     `json:"unidade_id" validate:"required,uuid"`
	ProfissionalID string     `json:"profissional_id" validate:"required,uuid"`
	AgendamentoID  string     `json:"agendamento_id" validate:"omitempty,uuid"`
	AlunoID        string     `json:"aluno_id" validate:"omitempty,uuid"`
	PacienteNome   string     `json:"paciente_nome" validate:"required,max=180"`
	PacienteCPF    string     `json:"paciente_cpf" validate:"omitempty,max=14"`
	Data           *time.Time `json:"data"`
	Tipo           string     `json:"tipo" validate:"omitempty,oneof=CONSULTA PROCEDIMENTO VACINA VISITA TRIAGEM OUTROS"`
	Observacoes    string     `json:"observacoes"`
	CID            string     `json:"cid" validate:"omitempty,max=10"`
}

// AtendimentoSaudeResponse atendimento.
type AtendimentoSaudeResponse struct {
	ID             string    `json:"id"`
	UnidadeID      string    `json:"unidade_id"`
	ProfissionalID string    `json:"profissional_id"`
	AgendamentoID  string    `json:"agendamento_id,omitempty"`
	AlunoID        string    `json:"aluno_id,omitempty"`
	PacienteNome   string    `json:"paciente_nome"`
	Data           time.Time `json:"data"`
	Tipo           string    `json:"tipo"`
	Observacoes    string    `json:"observacoes,omitempty"`
	CID            string    `json:"cid,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
