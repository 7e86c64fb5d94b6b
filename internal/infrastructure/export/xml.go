package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// XMLWriter implementa ports.ExecucoesXMLWriter.
type XMLWriter struct{}

// NewXMLWriter constrói o escritor.
func NewXMLWriter() *XMLWriter { return &XMLWriter{} }

// ExecucoesXML monta <IntegracaoExecucoes> com um <Execucao> por linha e devolve
// o SHA-256 (hex) da forma canônica C14N do documento.
func (w *XMLWriter) ExecucoesXML(municipio string, geradoEm time.Time, rows []*entity.IntegracaoExecucao) ([]byte, string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("IntegracaoExecucoes")
	root.CreateAttr("municipio", municipio)
	root.CreateAttr("geradoEm", geradoEm.UTC().Format(time.RFC3339))
	root.CreateAttr("total", strconv.Itoa(len(rows)))

	for _, r := range rows {
		el := root.CreateElement("Execucao")
		el.CreateAttr("id", r.ID)
		el.CreateAttr("conectorId", r.ConectorID)
		child(el, "Conector", r.ConectorNome)
		child(el, "Direcao", r.Direcao)
		child(el, "Status", r.Status)
		child(el, "Referencia", r.Referencia)
		child(el, "QuantidadeRegistros", strconv.Itoa(r.QuantidadeRegistros))
		child(el, "Detalhes", r.Detalhes)
		child(el, "ExecutadoPor", r.ExecutadoPor)
		child(el, "ExecutadoEm", r.ExecutadoEm.UTC().Format(time.RFC3339))
	}

	doc.Indent(2)
	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xml: serializar: %w", err)
	}

	canon, err := canonicalizeXML(body)
	if err != nil {
		return nil, "", fmt.Errorf("xml: c14n: %w", err)
	}
	sum := sha256.Sum256(canon)
	return body, hex.EncodeToString(sum[:]), nil
}

func child(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

// CanonicalSHA256 recalcula o hash canônico de um documento recebido.
func CanonicalSHA256(data []byte) (string, error) {
	canon, err := canonicalizeXML(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalizeXML aplica C14N; a declaração <?xml?> não faz parte da forma canônica.
func canonicalizeXML(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("<?xml")) {
		if i := bytes.Index(data, []byte("?>")); i >= 0 {
			data = bytes.TrimSpace(data[i+2:])
		}
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
