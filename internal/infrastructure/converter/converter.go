// Package converter executa as conversões de documentos: LibreOffice e pdftoppm por
// linha de comando, pdfcpu para juntar, separar e importar imagens.
package converter

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/gepub/gepub-api/internal/application/conversor"
	domconv "github.com/gepub/gepub-api/internal/domain/conversor"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/pkg/logger"
)

// Nomes fixos dos arquivos gerados.
const (
	NomeImagensPDF = "imagens_convertidas.pdf"
	NomeImagensZip = "pdf_imagens.zip"
	NomeMerge      = "pdf_unificado.pdf"
	NomeSplitZip   = "pdf_split.zip"
)

var _ conversor.Converter = (*Converter)(nil)

// Converter despacha pelo tipo do job.
type Converter struct {
	soffice  string
	pdftoppm string
	log      *logger.Logger
}

// New usa os binários informados (nome no PATH ou caminho absoluto).
func New(soffice, pdftoppm string, log *logger.Logger) *Converter {
	return &Converter{soffice: soffice, pdftoppm: pdftoppm, log: log.Named("converter")}
}

func (c *Converter) Convert(ctx context.Context, tipo string, inputs []string, workdir, pages string) (*conversor.Output, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("nenhum arquivo de entrada")
	}
	switch tipo {
	case entity.ConversaoDocxToPDF:
		return c.docxToPDF(ctx, inputs[0], workdir)
	case entity.ConversaoImgToPDF:
		return imgToPDF(inputs, workdir)
	case entity.ConversaoPDFToImages:
		return c.pdfToImages(ctx, inputs[0], workdir)
	case entity.ConversaoPDFMerge:
		return merge(inputs, workdir)
	case entity.ConversaoPDFSplit:
		return split(inputs[0], workdir, pages)
	default:
		return nil, fmt.Errorf("tipo de conversão não suportado: %s", tipo)
	}
}

func (c *Converter) docxToPDF(ctx context.Context, in, workdir string) (*conversor.Output, error) {
	outDir := filepath.Join(workdir, "out")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, err
	}
	logs, err := c.run(ctx, c.soffice, "--headless", "--convert-to", "pdf", "--outdir", outDir, in)
	if err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	body, err := os.ReadFile(filepath.Join(outDir, stem+".pdf"))
	if err != nil {
		return nil, fmt.Errorf("LibreOffice não gerou o PDF: %w", err)
	}
	return &conversor.Output{Nome: saida(in, ".pdf"), Conteudo: body, Logs: logs}, nil
}

func (c *Converter) pdfToImages(ctx context.Context, in, workdir string) (*conversor.Output, error) {
	outDir := filepath.Join(workdir, "pages")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, err
	}
	logs, err := c.run(ctx, c.pdftoppm, "-png", in, filepath.Join(outDir, "page"))
	if err != nil {
		return nil, err
	}
	files, err := filepath.Glob(filepath.Join(outDir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("pdftoppm não gerou imagens")
	}
	body, err := Zip(files)
	if err != nil {
		return nil, err
	}
	return &conversor.Output{Nome: NomeImagensZip, Conteudo: body, Logs: logs}, nil
}

func imgToPDF(inputs []string, workdir string) (*conversor.Output, error) {
	out := filepath.Join(workdir, NomeImagensPDF)
	if err := api.ImportImagesFile(inputs, out, pdfcpu.DefaultImportConfig(), nil); err != nil {
		return nil, fmt.Errorf("importar imagens: %w", err)
	}
	body, err := os.ReadFile(out)
	if err != nil {
		return nil, err
	}
	return &conversor.Output{Nome: NomeImagensPDF, Conteudo: body, Logs: fmt.Sprintf("%d imagem(ns) convertida(s)", len(inputs))}, nil
}

func merge(inputs []string, workdir string) (*conversor.Output, error) {
	out := filepath.Join(workdir, NomeMerge)
	if err := api.MergeCreateFile(inputs, out, false, nil); err != nil {
		return nil, fmt.Errorf("unificar PDFs: %w", err)
	}
	body, err := os.ReadFile(out)
	if err != nil {
		return nil, err
	}
	return &conversor.Output{Nome: NomeMerge, Conteudo: body, Logs: fmt.Sprintf("%d arquivo(s) unificado(s)", len(inputs))}, nil
}

func split(in, workdir, pages string) (*conversor.Output, error) {
	total, err := api.PageCountFile(in)
	if err != nil {
		return nil, fmt.Errorf("contar páginas: %w", err)
	}
	selected, err := domconv.ParsePages(pages, total)
	if err != nil {
		return nil, err
	}
	outDir := filepath.Join(workdir, "split")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, err
	}
	files := make([]string, 0, len(selected))
	for _, p := range selected {
		out := filepath.Join(outDir, fmt.Sprintf("pagina_%03d.pdf", p))
		if err := api.TrimFile(in, out, []string{strconv.Itoa(p)}, nil); err != nil {
			return nil, fmt.Errorf("separar página %d: %w", p, err)
		}
		files = append(files, out)
	}
	body, err := Zip(files)
	if err != nil {
		return nil, err
	}
	return &conversor.Output{Nome: NomeSplitZip, Conteudo: body, Logs: fmt.Sprintf("%d página(s) de %d", len(files), total)}, nil
}

// run executa o binário e devolve stdout+stderr; o ctx carrega o tempo limite.
func (c *Converter) run(ctx context.Context, bin string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	c.log.Debug().Str("bin", bin).Strs("args", args).Msg("executando conversão")
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return out.String(), fmt.Errorf("%s interrompido: %w", filepath.Base(bin), ctx.Err())
		}
		return out.String(), fmt.Errorf("%s falhou: %w: %s", filepath.Base(bin), err, strings.TrimSpace(out.String()))
	}
	return out.String(), nil
}

// Zip compacta os arquivos pelo nome base, em ordem alfabética.
func Zip(files []string) ([]byte, error) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range sorted {
		if err := addFile(zw, f); err != nil {
			zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

// saida nome do arquivo gerado: o nome original do upload sem o prefixo in_N_.
func saida(in, ext string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if rest, ok := strings.CutPrefix(base, "in_"); ok {
		if _, after, found := strings.Cut(rest, "_"); found {
			base = after
		}
	}
	return base + ext
}
