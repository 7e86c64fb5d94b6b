package dto

import "time"

// Formatos de exportação aceitos em ?format=.
const (
	FormatoCSV  = "csv"
	FormatoXLSX = "xlsx"
	FormatoPDF  = "pdf"
)

// Tabela dados de uma listagem prontos para exportar (CSV, XLSX ou PDF).
type Tabela struct {
	Titulo    string
	Arquivo   string // nome base, sem extensão
	Usuario   string
	GeradoEm  time.Time
	Cabecalho []string
	Linhas    [][]string
}

// Arquivo resultado de uma exportação.
type Arquivo struct {
	Nome        string
	ContentType string
	Conteudo    []byte
	Hash        string // SHA-256 hex quando o formato o calcula
}
