package http_test

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/application/conversor"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain/entity"
	apphttp "github.com/gepub/gepub-api/internal/interfaces/http"
	"github.com/gepub/gepub-api/internal/testutil/memory"
	"github.com/gepub/gepub-api/pkg/logger"
)

type conversorEnv struct {
	app     *fiber.App
	dados   *memory.Conversor
	auditor *memory.Auditor
	token   string
}

func newConversorEnv(t *testing.T) *conversorEnv {
	t.Helper()
	org := memory.NewOrg()
	org.Seed(testMunicipioID, "", "", "")
	e := &conversorEnv{dados: memory.NewConversor(), auditor: &memory.Auditor{}}
	svc := conversor.NewService(e.dados.JobRepo(), e.dados.Storage(), nil, nil,
		usecase.NewModuleService(org.ModuloRepo(), org.MunicipioRepo()), e.auditor,
		conversor.Config{MaxUploadBytes: 1 << 20, Timeout: time.Minute}, logger.Nop())

	a := newTestAuth()
	e.token = a.tokenFor(t, entity.RoleMunicipal, false)
	e.app = newTestApp()
	e.app.Get("/api/conversor/jobs/:id/download", a.mw, apphttp.NewConversorHandler(svc).Download)
	return e
}

// job grava um job do município de teste; concluído quando saida != "".
func (e *conversorEnv) job(id, status, saida, conteudo string) {
	j := &entity.ConversionJob{
		ID:          id,
		MunicipioID: testMunicipioID,
		Tipo:        entity.ConversaoDocxToPDF,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if saida != "" {
		j.OutputKey = "conversor/" + id + "/saida"
		j.OutputNome = saida
		e.dados.Arquivos[j.OutputKey] = []byte(conteudo)
	}
	e.dados.Jobs[id] = j
}

func TestConversorDownload_EntregaAnexo(t *testing.T) {
	e := newConversorEnv(t)
	e.job("j1", entity.JobConcluido, "oficio.pdf", "%PDF-1.7")

	resp := doGet(t, e.app, "/api/conversor/jobs/j1/download", e.token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, fiber.MIMEOctetStream, resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
	assert.Equal(t, "attachment; filename=oficio.pdf", resp.Header.Get(fiber.HeaderContentDisposition))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(body))
	assert.Contains(t, e.auditor.Nomes(), "CONVERSAO_DOWNLOAD")
}

func TestConversorDownload_JobNaoConcluido(t *testing.T) {
	e := newConversorEnv(t)
	e.job("j2", entity.JobPendente, "", "")

	resp := doGet(t, e.app, "/api/conversor/jobs/j2/download", e.token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeConflict, errorCode(t, resp))
	assert.NotContains(t, e.auditor.Nomes(), "CONVERSAO_DOWNLOAD")
}

func TestConversorDownload_OutroMunicipio(t *testing.T) {
	e := newConversorEnv(t)
	e.job("j3", entity.JobConcluido, "oficio.pdf", "%PDF")
	e.dados.Jobs["j3"].MunicipioID = "outro-municipio"

	resp := doGet(t, e.app, "/api/conversor/jobs/j3/download", e.token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConversorDownload_NomeSaneado(t *testing.T) {
	e := newConversorEnv(t)
	e.job("j4", entity.JobConcluido, "../tmp/rel\"at\r\nório.pdf", "%PDF")

	resp := doGet(t, e.app, "/api/conversor/jobs/j4/download", e.token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cd := resp.Header.Get(fiber.HeaderContentDisposition)
	assert.Equal(t, "attachment; filename*=utf-8''relat%C3%B3rio.pdf", cd)
	assert.False(t, strings.ContainsAny(cd, "\"\r\n/"), cd)
}
