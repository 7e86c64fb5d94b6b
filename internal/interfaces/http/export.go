package http

import (
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// HeaderContentSHA256 hash do conteúdo entregue (XML: forma canônica C14N).
const HeaderContentSHA256 = "X-Content-SHA256"

// sendArquivo entrega um arquivo gerado como anexo.
func sendArquivo(c *fiber.Ctx, arq *dto.Arquivo) error {
	c.Set(fiber.HeaderContentType, arq.ContentType)
	c.Set(fiber.HeaderContentDisposition, attachment(arq.Nome))
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	if arq.Hash != "" {
		c.Set(HeaderContentSHA256, arq.Hash)
	}
	return c.Status(fiber.StatusOK).Send(arq.Conteudo)
}

// attachment Content-Disposition com o nome reduzido à base, sem aspas nem caracteres de controle.
// Nomes fora de ASCII saem em filename* (RFC 2231).
func attachment(nome string) string {
	nome = path.Base(strings.ReplaceAll(nome, "\\", "/"))
	nome = strings.Map(func(r rune) rune {
		if r == '"' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, nome)
	if nome == "" || nome == "." || nome == "/" {
		nome = "download"
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": nome}); v != "" {
		return v
	}
	return `attachment; filename="download"`
}

// exportTabela monta a tabela com o usuário corrente e exporta no ?format= pedido.
func exportTabela(c *fiber.Ctx, exporter ports.Exporter, build func(p rbac.Principal) (dto.Tabela, error)) error {
	p := GetPrincipal(c)
	t, err := build(p)
	if err != nil {
		return respondError(c, err)
	}
	if t.Usuario == "" {
		t.Usuario = p.UserID
	}
	arq, err := exporter.Export(c.Query("format", dto.FormatoCSV), t)
	if err != nil {
		return respondError(c, err)
	}
	return sendArquivo(c, arq)
}

// listQuery lê ?q=&status=&tipo=&ativo=&limit=&offset=.
func listQuery(c *fiber.Ctx) (dto.ListQuery, error) {
	var q dto.ListQuery
	if err := bindQuery(c, &q); err != nil {
		return q, err
	}
	q.DefaultPage()
	return q, nil
}
