package conversor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/testutil/memory"
	"github.com/gepub/gepub-api/pkg/logger"
)

var (
	operador = rbac.Principal{UserID: "u1", Role: entity.RoleUnidade, MunicipioID: "m1", SecretariaID: "s1", UnidadeID: "un1"}
	outroMun = rbac.Principal{UserID: "u2", Role: entity.RoleMunicipal, MunicipioID: "m2"}
)

type env struct {
	svc     *Service
	repo    *jobRepo
	storage *memStorage
	conv    *fakeConverter
	auditor *memory.Auditor
}

func newEnv(queue Queue) *env {
	e := &env{repo: newJobRepo(), storage: newStorage(), conv: &fakeConverter{}, auditor: &memory.Auditor{}}
	e.svc = NewService(e.repo, e.storage, queue, e.conv, fixedMunicipio{}, e.auditor,
		Config{MaxUploadBytes: 10 << 20, Timeout: time.Minute}, logger.Nop())
	return e
}

func docx() CreateInput {
	a := upload("oficio.docx", "conteudo")
	return CreateInput{Tipo: entity.ConversaoDocxToPDF, Principal: &a}
}

func TestCreate_SemFilaProcessaNaHora(t *testing.T) {
	e := newEnv(nil)

	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)

	assert.Equal(t, entity.JobConcluido, job.Status)
	assert.Equal(t, "saida.pdf", job.OutputNome)
	assert.Equal(t, "/api/conversor/jobs/"+job.ID+"/download", job.DownloadURL)
	assert.Equal(t, "oficio.docx", job.InputNome)
	assert.Equal(t, 1, job.Tentativas)
	assert.Contains(t, e.storage.files, "conversor/m1/"+job.ID+"/entrada/00_oficio.docx")
	assert.Contains(t, e.storage.files, "conversor/m1/"+job.ID+"/saida/saida.pdf")
	assert.Equal(t, []string{"CONVERSAO_CONCLUIDA"}, e.auditor.Nomes())

	stored := e.repo.jobs[job.ID]
	assert.Equal(t, "s1", stored.SecretariaID)
	assert.Equal(t, "un1", stored.UnidadeID)
}

func TestCreate_ComFilaApenasEnfileira(t *testing.T) {
	q := &fakeQueue{}
	e := newEnv(q)

	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)

	assert.Equal(t, entity.JobPendente, job.Status)
	assert.Equal(t, []string{job.ID}, q.ids)
	assert.Empty(t, job.DownloadURL)
	assert.Empty(t, e.auditor.Nomes())
}

func TestCreate_FilaForaDoArCaiParaSincrono(t *testing.T) {
	e := newEnv(&fakeQueue{fail: true})

	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)
	assert.Equal(t, entity.JobConcluido, job.Status)
}

func TestCreate_Validacao(t *testing.T) {
	e := newEnv(nil)

	a := upload("foto.png", "x")
	_, err := e.svc.Create(context.Background(), operador, "", CreateInput{Tipo: entity.ConversaoPDFMerge, Principal: &a})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var fe domain.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.True(t, fe.Has("arquivos_adicionais"))
	assert.True(t, fe.Has("input_file"))
	assert.Empty(t, e.repo.jobs)
	assert.Empty(t, e.storage.files)
}

func TestCreate_MergeMantemOrdem(t *testing.T) {
	e := newEnv(nil)
	a := upload("a.pdf", "1")
	_, err := e.svc.Create(context.Background(), operador, "", CreateInput{
		Tipo:       entity.ConversaoPDFMerge,
		Principal:  &a,
		Adicionais: []Arquivo{upload("b.pdf", "2"), upload("c.pdf", "3")},
	})
	require.NoError(t, err)

	require.Len(t, e.conv.inputs, 3)
	assert.True(t, strings.HasSuffix(e.conv.inputs[0], "in_1_a.pdf"))
	assert.True(t, strings.HasSuffix(e.conv.inputs[1], "in_2_b.pdf"))
	assert.True(t, strings.HasSuffix(e.conv.inputs[2], "in_3_c.pdf"))
}

func TestProcess_ErroFicaNoJob(t *testing.T) {
	e := newEnv(nil)
	e.conv.err = errors.New(strings.Repeat("x", 600))

	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)

	assert.Equal(t, entity.JobErro, job.Status)
	assert.Len(t, job.Logs, 600)
	assert.Empty(t, job.DownloadURL)
	require.Len(t, e.auditor.Eventos, 1)
	ev := e.auditor.Eventos[0]
	assert.Equal(t, "CONVERSAO_ERRO", ev.Evento)
	assert.Equal(t, "CONVERSOR", ev.Modulo)
	var depois map[string]any
	require.NoError(t, json.Unmarshal(ev.Depois, &depois))
	assert.Len(t, depois["erro"], 400)
}

func TestProcess_IgnoraJobJaReivindicado(t *testing.T) {
	q := &fakeQueue{}
	e := newEnv(q)
	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)

	require.NoError(t, e.svc.Process(context.Background(), job.ID, ""))
	require.NoError(t, e.svc.Process(context.Background(), job.ID, ""))

	assert.Equal(t, 1, e.repo.jobs[job.ID].Tentativas)
	assert.Equal(t, []string{"CONVERSAO_CONCLUIDA"}, e.auditor.Nomes())
	assert.Equal(t, "u1", e.auditor.Eventos[0].UsuarioID)
}

func TestReprocess(t *testing.T) {
	e := newEnv(nil)
	e.conv.err = errors.New("soffice falhou")
	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)
	require.Equal(t, entity.JobErro, job.Status)

	e.conv.err = nil
	job, err = e.svc.Reprocess(context.Background(), operador, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobConcluido, job.Status)
	assert.Equal(t, 2, job.Tentativas)

	_, err = e.svc.Reprocess(context.Background(), operador, job.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDownload(t *testing.T) {
	q := &fakeQueue{}
	e := newEnv(q)
	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)

	_, _, err = e.svc.Download(context.Background(), operador, job.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, e.svc.Process(context.Background(), job.ID, ""))
	rc, nome, err := e.svc.Download(context.Background(), operador, job.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "saida.pdf", nome)
	assert.Equal(t, "%PDF-DOCX_TO_PDF", string(body))
	assert.Equal(t, []string{"CONVERSAO_CONCLUIDA", "CONVERSAO_DOWNLOAD"}, e.auditor.Nomes())
}

func TestVisibilidadePorMunicipio(t *testing.T) {
	e := newEnv(&fakeQueue{})
	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)

	_, err = e.svc.Get(context.Background(), outroMun, job.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// colega do mesmo município em outra secretaria enxerga o job
	colega := rbac.Principal{UserID: "u3", Role: entity.RoleSecretaria, MunicipioID: "m1", SecretariaID: "s2"}
	got, err := e.svc.Get(context.Background(), colega, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	list, err := e.svc.List(context.Background(), outroMun, "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestRequeueStale(t *testing.T) {
	q := &fakeQueue{}
	e := newEnv(q)
	ctx := context.Background()

	preso, err := e.svc.Create(ctx, operador, "", docx())
	require.NoError(t, err)
	esgotado, err := e.svc.Create(ctx, operador, "", docx())
	require.NoError(t, err)
	q.ids = nil

	e.repo.jobs[preso.ID].Status = entity.JobProcessando
	e.repo.jobs[preso.ID].Tentativas = 1
	e.repo.jobs[esgotado.ID].Status = entity.JobProcessando
	e.repo.jobs[esgotado.ID].Tentativas = MaxTentativas

	require.NoError(t, e.svc.RequeueStale(ctx))

	assert.Equal(t, []string{preso.ID}, q.ids)
	assert.Equal(t, entity.JobPendente, e.repo.jobs[preso.ID].Status)
	assert.Equal(t, entity.JobErro, e.repo.jobs[esgotado.ID].Status)
	assert.Equal(t, "Tempo limite excedido após 3 tentativas.", e.repo.jobs[esgotado.ID].Logs)
	assert.Equal(t, []string{"CONVERSAO_ERRO"}, e.auditor.Nomes())
}

func TestWorkerPool_ConsomeFila(t *testing.T) {
	q := &fakeQueue{}
	e := newEnv(q)
	job, err := e.svc.Create(context.Background(), operador, "", docx())
	require.NoError(t, err)

	pool := NewWorkerPool(q, e.svc, 2, 10*time.Millisecond, logger.Nop())
	pool.Start(context.Background())

	assert.Eventually(t, func() bool {
		got, err := e.svc.Get(context.Background(), operador, job.ID)
		return err == nil && got.Status == entity.JobConcluido
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pool.Stop(ctx))
}
