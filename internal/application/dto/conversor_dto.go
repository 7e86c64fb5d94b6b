package dto

import "time"

// ConversionInputResponse arquivo de entrada do job.
type ConversionInputResponse struct {
	Ordem   int    `json:"ordem"`
	Nome    string `json:"nome"`
	Tamanho int64  `json:"tamanho"`
}

// ConversionJobResponse estado de um job de conversão.
type ConversionJobResponse struct {
	ID             string                    `json:"id"`
	Tipo           string                    `json:"tipo"`
	Status         string                    `json:"status"`
	Pages          string                    `json:"pages,omitempty"`
	InputNome      string                    `json:"input_nome"`
	OutputNome     string                    `json:"output_nome,omitempty"`
	Logs           string                    `json:"logs,omitempty"`
	TamanhoEntrada int64                     `json:"tamanho_entrada"`
	TamanhoSaida   int64                     `json:"tamanho_saida"`
	DuracaoMS      int64                     `json:"duracao_ms"`
	Tentativas     int                       `json:"tentativas"`
	Inputs         []ConversionInputResponse `json:"inputs"`
	CreatedAt      time.Time                 `json:"created_at"`
	ConcluidoEm    *time.Time                `json:"concluido_em,omitempty"`
	DownloadURL    string                    `json:"download_url,omitempty"`
}
