package entity

import "time"

// Tipos de conversão.
const (
	ConversaoDocxToPDF   = "DOCX_TO_PDF"
	ConversaoImgToPDF    = "IMG_TO_PDF"
	ConversaoPDFToImages = "PDF_TO_IMAGES"
	ConversaoPDFMerge    = "PDF_MERGE"
	ConversaoPDFSplit    = "PDF_SPLIT"
)

// ConversaoTipos lista os tipos aceitos.
var ConversaoTipos = []string{
	ConversaoDocxToPDF, ConversaoImgToPDF, ConversaoPDFToImages, ConversaoPDFMerge, ConversaoPDFSplit,
}

// Status de job.
const (
	JobPendente    = "PENDENTE"
	JobProcessando = "PROCESSANDO"
	JobConcluido   = "CONCLUIDO"
	JobErro        = "ERRO"
)

// ConversionJob pedido de conversão de documentos.
type ConversionJob struct {
	ID             string
	MunicipioID    string
	SecretariaID   string
	UnidadeID      string
	SetorID        string
	Tipo           string
	Status         string
	Pages          string
	OutputKey      string
	OutputNome     string
	Logs           string
	TamanhoEntrada int64
	TamanhoSaida   int64
	DuracaoMS      int64
	Tentativas     int
	CriadoPor      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ConcluidoEm    *time.Time
	Inputs         []ConversionJobInput
}

// Primary devolve o arquivo principal (ordem 0), se houver.
func (j *ConversionJob) Primary() *ConversionJobInput {
	for i := range j.Inputs {
		if j.Inputs[i].Ordem == 0 {
			return &j.Inputs[i]
		}
	}
	if len(j.Inputs) > 0 {
		return &j.Inputs[0]
	}
	return nil
}

// ConversionJobInput arquivo de entrada; ordem 0 é o principal.
type ConversionJobInput struct {
	ID         string
	JobID      string
	Ordem      int
	StorageKey string
	Nome       string
	Tamanho    int64
}
