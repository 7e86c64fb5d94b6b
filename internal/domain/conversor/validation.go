// Package conversor valida pedidos de conversão e interpreta faixas de páginas.
package conversor

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
)

// Campos do formulário de conversão.
const (
	FieldTipo      = "tipo"
	FieldInput     = "input_file"
	FieldAdicional = "arquivos_adicionais"
	FieldPages     = "pages"
)

var (
	docExt   = map[string]bool{".docx": true, ".doc": true}
	imageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".gif": true, ".webp": true, ".tif": true, ".tiff": true}
	pdfExt   = map[string]bool{".pdf": true}

	pagesMask = regexp.MustCompile(`^[0-9,\-\s]+$`)
)

// FileMeta nome e tamanho de um arquivo enviado.
type FileMeta struct {
	Name string
	Size int64
}

// Request pedido de conversão antes de persistir.
type Request struct {
	Tipo       string
	Pages      string
	Primary    *FileMeta
	Adicionais []FileMeta
}

// Files devolve principal + adicionais na ordem de processamento.
func (r Request) Files() []FileMeta {
	out := make([]FileMeta, 0, len(r.Adicionais)+1)
	if r.Primary != nil {
		out = append(out, *r.Primary)
	}
	return append(out, r.Adicionais...)
}

// Ext extensão em minúsculas (".pdf").
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Validate aplica as regras do formulário; erros vêm agrupados por campo.
func Validate(r Request, maxBytes int64) error {
	errs := domain.FieldErrors{}

	valid := false
	for _, t := range entity.ConversaoTipos {
		if r.Tipo == t {
			valid = true
			break
		}
	}
	if !valid {
		errs.Add(FieldTipo, "Tipo de conversão inválido.")
	}

	files := r.Files()
	if len(files) == 0 {
		errs.Add(FieldInput, "Envie ao menos um arquivo para conversão.")
		return errs
	}
	if r.Primary == nil {
		errs.Add(FieldInput, "Envie o arquivo principal no campo input_file.")
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}
	if maxBytes > 0 && total > maxBytes {
		errs.Add(FieldInput, fmt.Sprintf("Tamanho total excede %d MB.", maxBytes/(1024*1024)))
	}

	primaryExt := ""
	if r.Primary != nil {
		primaryExt = Ext(r.Primary.Name)
	}

	switch r.Tipo {
	case entity.ConversaoDocxToPDF:
		if !docExt[primaryExt] {
			errs.Add(FieldInput, "Para DOCX -> PDF, envie .docx ou .doc no arquivo principal.")
		}
	case entity.ConversaoImgToPDF:
		for _, f := range files {
			if !imageExt[Ext(f.Name)] {
				errs.Add(FieldInput, "Para Imagem -> PDF, envie apenas arquivos de imagem.")
				break
			}
		}
	case entity.ConversaoPDFToImages, entity.ConversaoPDFSplit:
		if !pdfExt[primaryExt] {
			errs.Add(FieldInput, "Para esta conversão, o arquivo principal deve ser PDF.")
		}
	case entity.ConversaoPDFMerge:
		if len(files) < 2 {
			errs.Add(FieldAdicional, "Para unir PDFs, envie ao menos dois arquivos PDF.")
		}
		for _, f := range files {
			if !pdfExt[Ext(f.Name)] {
				errs.Add(FieldInput, "No merge, todos os arquivos devem ser PDF.")
				break
			}
		}
	}

	if pages := strings.TrimSpace(r.Pages); pages != "" && !pagesMask.MatchString(pages) {
		errs.Add(FieldPages, "Formato inválido. Use apenas números, vírgula e hífen (ex.: 1-3,8).")
	}

	return errs.Err()
}

// ErrInvalidPages faixa de páginas sem nenhuma página válida.
var ErrInvalidPages = fmt.Errorf("%w: Faixa de páginas inválida para split.", domain.ErrInvalidInput)

// ParsePages interpreta "1-3,7,10" contra um documento de total páginas.
// Vazio seleciona todas; faixas invertidas são trocadas; páginas fora de 1..total
// são ignoradas. O resultado é ordenado e sem repetição.
func ParsePages(spec string, total int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		out := make([]int, 0, total)
		for p := 1; p <= total; p++ {
			out = append(out, p)
		}
		if len(out) == 0 {
			return nil, ErrInvalidPages
		}
		return out, nil
	}

	selected := make([]bool, total+1)
	add := func(p int) {
		if p >= 1 && p <= total {
			selected[p] = true
		}
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if startRaw, endRaw, isRange := strings.Cut(part, "-"); isRange {
			start, err1 := strconv.Atoi(strings.TrimSpace(startRaw))
			end, err2 := strconv.Atoi(strings.TrimSpace(endRaw))
			if err1 != nil || err2 != nil {
				return nil, ErrInvalidPages
			}
			if start > end {
				start, end = end, start
			}
			for p := max(start, 1); p <= min(end, total); p++ {
				add(p)
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, ErrInvalidPages
		}
		add(p)
	}

	out := make([]int, 0, total)
	for p := 1; p <= total; p++ {
		if selected[p] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, ErrInvalidPages
	}
	return out, nil
}
