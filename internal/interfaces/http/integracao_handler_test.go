package http_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucarion/c14n"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/integracoes"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/infrastructure/export"
	apphttp "github.com/gepub/gepub-api/internal/interfaces/http"
	"github.com/gepub/gepub-api/internal/testutil/memory"
)

func newIntegracaoApp(t *testing.T) (*fiber.App, *integracoes.UseCase, string) {
	t.Helper()
	org := memory.NewOrg()
	org.Seed(testMunicipioID, "", "", "")
	hub := memory.NewIntegracoes()
	uc := integracoes.NewUseCase(hub.ConectorRepo(), hub.ExecucaoRepo(), org.MunicipioRepo(),
		usecase.NewModuleService(org.ModuloRepo(), org.MunicipioRepo()), export.NewXMLWriter(), &memory.Auditor{})

	a := newTestAuth()
	token := a.tokenFor(t, entity.RoleMunicipal, false)
	h := apphttp.NewIntegracaoHandler(uc, export.NewExporter(nil))
	app := newTestApp()
	app.Get("/api/integracoes/execucoes/export.xml", a.mw, h.ExportXML)
	return app, uc, token
}

func canonicalSHA256(t *testing.T, body []byte) string {
	t.Helper()
	data := bytes.TrimSpace(body)
	if i := bytes.Index(data, []byte("?>")); bytes.HasPrefix(data, []byte("<?xml")) && i >= 0 {
		data = bytes.TrimSpace(data[i+2:])
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	canon, err := c14n.Canonicalize(dec)
	require.NoError(t, err)
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:])
}

func TestIntegracaoExportXML_HashCanonico(t *testing.T) {
	app, uc, token := newIntegracaoApp(t)
	p := rbac.Principal{UserID: testUserID, Role: entity.RoleMunicipal, MunicipioID: testMunicipioID}
	con, err := uc.CreateConector(context.Background(), p, "", dto.ConectorRequest{
		Nome:        "SICONFI",
		Dominio:     entity.DominioSiconfi,
		Tipo:        entity.ConectorAPI,
		Endpoint:    "https://siconfi.example.gov.br/api",
		Credenciais: json.RawMessage(`{"token":"segredo"}`),
	})
	require.NoError(t, err)
	_, err = uc.RegistrarExecucao(context.Background(), p, con.ID, dto.ExecucaoRequest{
		Direcao: entity.ExecucaoExportacao, Status: entity.ExecucaoSucesso, Referencia: "RREO-1B & anexo", QuantidadeRegistros: 3,
	})
	require.NoError(t, err)

	resp := doGet(t, app, "/api/integracoes/execucoes/export.xml", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "application/xml", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
	assert.Equal(t, "attachment; filename=integracoes_execucoes.xml", resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Contains(t, string(body), "<Referencia>RREO-1B &amp; anexo</Referencia>")

	hash := resp.Header.Get(apphttp.HeaderContentSHA256)
	require.Len(t, hash, 64)
	assert.Equal(t, canonicalSHA256(t, body), hash)
}

func TestIntegracaoExportXML_SemExecucoes(t *testing.T) {
	app, _, token := newIntegracaoApp(t)

	resp := doGet(t, app, "/api/integracoes/execucoes/export.xml", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `total="0"`)
	assert.Equal(t, canonicalSHA256(t, body), resp.Header.Get(apphttp.HeaderContentSHA256))
}
