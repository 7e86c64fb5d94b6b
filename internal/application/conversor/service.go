package conversor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/conversor"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/pkg/logger"
	"github.com/gepub/gepub-api/pkg/textutil"
)

const (
	auditModulo = "CONVERSOR"
	// MaxTentativas limite de reenvios automáticos de um job travado em PROCESSANDO.
	MaxTentativas = 3
)

// Config limites do conversor.
type Config struct {
	MaxUploadBytes int64
	Timeout        time.Duration
}

// Arquivo enviado no formulário de conversão.
type Arquivo struct {
	Nome    string
	Tamanho int64
	Abrir   func() (io.ReadCloser, error)
}

// CreateInput pedido de conversão vindo do handler multipart.
type CreateInput struct {
	Tipo       string
	Pages      string
	Principal  *Arquivo
	Adicionais []Arquivo
}

// Service cria, processa e entrega jobs de conversão.
type Service struct {
	repo       repository.ConversionJobRepository
	storage    Storage
	queue      Queue // nil quando Redis está desligado
	converter  Converter
	municipios MunicipioResolver
	auditor    ports.Auditor
	cfg        Config
	log        *logger.Logger
	now        func() time.Time
}

// NewService constrói o serviço. queue pode ser nil: os jobs são processados na própria requisição.
func NewService(
	repo repository.ConversionJobRepository,
	storage Storage,
	queue Queue,
	converter Converter,
	municipios MunicipioResolver,
	auditor ports.Auditor,
	cfg Config,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:       repo,
		storage:    storage,
		queue:      queue,
		converter:  converter,
		municipios: municipios,
		auditor:    auditor,
		cfg:        cfg,
		log:        log.Named("conversor"),
		now:        time.Now,
	}
}

// Create valida o pedido, guarda os arquivos e despacha o job (fila ou síncrono).
func (s *Service) Create(ctx context.Context, p rbac.Principal, municipio string, in CreateInput) (*dto.ConversionJobResponse, error) {
	// ── 1. Validação do formulário ──
	req := conversor.Request{Tipo: in.Tipo, Pages: in.Pages}
	if in.Principal != nil {
		req.Primary = &conversor.FileMeta{Name: in.Principal.Nome, Size: in.Principal.Tamanho}
	}
	for _, a := range in.Adicionais {
		req.Adicionais = append(req.Adicionais, conversor.FileMeta{Name: a.Nome, Size: a.Tamanho})
	}
	if err := conversor.Validate(req, s.cfg.MaxUploadBytes); err != nil {
		return nil, err
	}
	mun, err := s.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}

	now := s.now()
	job := &entity.ConversionJob{
		ID:          uuid.New().String(),
		MunicipioID: mun,
		Tipo:        in.Tipo,
		Status:      entity.JobPendente,
		Pages:       strings.TrimSpace(in.Pages),
		CriadoPor:   p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !p.IsAdmin() {
		job.SecretariaID, job.UnidadeID, job.SetorID = p.SecretariaID, p.UnidadeID, p.SetorID
	}

	// ── 2. Armazenamento das entradas ──
	arquivos := make([]Arquivo, 0, len(in.Adicionais)+1)
	if in.Principal != nil {
		arquivos = append(arquivos, *in.Principal)
	}
	arquivos = append(arquivos, in.Adicionais...)
	for i, a := range arquivos {
		key := fmt.Sprintf("conversor/%s/%s/entrada/%02d_%s", mun, job.ID, i, nomeSeguro(a.Nome, i))
		if err := s.put(ctx, key, a); err != nil {
			s.cleanup(ctx, job)
			return nil, err
		}
		job.Inputs = append(job.Inputs, entity.ConversionJobInput{
			ID:         uuid.New().String(),
			JobID:      job.ID,
			Ordem:      i,
			StorageKey: key,
			Nome:       a.Nome,
			Tamanho:    a.Tamanho,
		})
		job.TamanhoEntrada += a.Tamanho
	}
	if err := s.repo.Create(ctx, job); err != nil {
		s.cleanup(ctx, job)
		return nil, err
	}

	// ── 3. Despacho ──
	if err := s.dispatch(ctx, job.ID, p.UserID); err != nil {
		return nil, err
	}
	return s.Get(ctx, p, job.ID)
}

// Get detalhe do job no município do usuário.
func (s *Service) Get(ctx context.Context, p rbac.Principal, id string) (*dto.ConversionJobResponse, error) {
	job, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// List jobs do município (filtros status, tipo e q sobre nomes de arquivo).
func (s *Service) List(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (*dto.ListResponse[dto.ConversionJobResponse], error) {
	mun, err := s.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	page := q.Repo()
	list, total, err := s.repo.List(ctx, repository.ListFilter{
		Scope:  rbac.Scope{MunicipioID: mun},
		Q:      strings.TrimSpace(q.Q),
		Status: strings.ToUpper(q.Status),
		Tipo:   strings.ToUpper(q.Tipo),
		Page:   page,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ConversionJobResponse, 0, len(list))
	for _, j := range list {
		items = append(items, *toJobResponse(j))
	}
	return &dto.ListResponse[dto.ConversionJobResponse]{Items: items, Page: dto.NewPage(page, total)}, nil
}

// Reprocess devolve um job com ERRO para a fila.
func (s *Service) Reprocess(ctx context.Context, p rbac.Principal, id string) (*dto.ConversionJobResponse, error) {
	job, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if job.Status != entity.JobErro {
		return nil, fmt.Errorf("%w: só jobs com erro podem ser reprocessados", domain.ErrInvalidTransition)
	}
	if err := s.repo.Reset(ctx, job.ID); err != nil {
		return nil, err
	}
	if err := s.dispatch(ctx, job.ID, p.UserID); err != nil {
		return nil, err
	}
	return s.Get(ctx, p, job.ID)
}

// Download abre o arquivo de saída; o chamador fecha o reader.
func (s *Service) Download(ctx context.Context, p rbac.Principal, id string) (io.ReadCloser, string, error) {
	job, err := s.load(ctx, p, id)
	if err != nil {
		return nil, "", err
	}
	if job.Status != entity.JobConcluido || job.OutputKey == "" {
		return nil, "", fmt.Errorf("%w: arquivo de saída ainda indisponível", domain.ErrConflict)
	}
	rc, err := s.storage.Get(ctx, job.OutputKey)
	if err != nil {
		return nil, "", err
	}
	s.audit(ctx, job, p.UserID, "CONVERSAO_DOWNLOAD", map[string]any{"tipo": job.Tipo, "arquivo": job.OutputNome})
	return rc, job.OutputNome, nil
}

// Process executa o job se ainda estiver PENDENTE. Falhas de conversão ficam registradas no job;
// só erros de infraestrutura são devolvidos.
func (s *Service) Process(ctx context.Context, jobID, actorID string) error {
	job, err := s.repo.Claim(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		s.log.Debug().Str("job_id", jobID).Msg("job já processado ou em processamento")
		return nil
	}
	if actorID == "" {
		actorID = job.CriadoPor
	}

	started := time.Now()
	out, convErr := s.run(ctx, job)
	job.DuracaoMS = time.Since(started).Milliseconds()
	concluido := s.now()
	job.ConcluidoEm = &concluido

	if convErr == nil {
		job.OutputNome = out.Nome
		job.OutputKey = fmt.Sprintf("conversor/%s/%s/saida/%s", job.MunicipioID, job.ID, out.Nome)
		convErr = s.storage.Put(ctx, job.OutputKey, bytes.NewReader(out.Conteudo), int64(len(out.Conteudo)))
	}
	if convErr != nil {
		job.Status = entity.JobErro
		job.Logs = convErr.Error()
		job.OutputKey, job.OutputNome, job.TamanhoSaida = "", "", 0
	} else {
		job.Status = entity.JobConcluido
		job.Logs = out.Logs
		job.TamanhoSaida = int64(len(out.Conteudo))
	}
	if err := s.repo.Finish(ctx, job); err != nil {
		return err
	}

	if job.Status == entity.JobConcluido {
		s.log.Info().Str("job_id", job.ID).Str("tipo", job.Tipo).Int64("duracao_ms", job.DuracaoMS).Msg("conversão concluída")
		s.audit(ctx, job, actorID, "CONVERSAO_CONCLUIDA", map[string]any{
			"tipo": job.Tipo, "duracao_ms": job.DuracaoMS, "tamanho_saida": job.TamanhoSaida,
		})
		return nil
	}
	s.log.Warn().Str("job_id", job.ID).Str("tipo", job.Tipo).Str("erro", job.Logs).Msg("conversão falhou")
	s.audit(ctx, job, actorID, "CONVERSAO_ERRO", map[string]any{"tipo": job.Tipo, "erro": textutil.Truncate(job.Logs, 400)})
	return nil
}

// RequeueStale reenvia jobs presos em PROCESSANDO além do timeout (até MaxTentativas,
// depois marca ERRO) e jobs PENDENTE que nunca saíram da fila.
func (s *Service) RequeueStale(ctx context.Context) error {
	before := s.now().Add(-s.cfg.Timeout)
	stale, err := s.repo.ListStale(ctx, before, 50)
	if err != nil {
		return err
	}
	for _, job := range stale {
		if job.Tentativas >= MaxTentativas {
			concluido := s.now()
			job.Status = entity.JobErro
			job.Logs = fmt.Sprintf("Tempo limite excedido após %d tentativas.", job.Tentativas)
			job.ConcluidoEm = &concluido
			if err := s.repo.Finish(ctx, job); err != nil {
				return err
			}
			s.audit(ctx, job, job.CriadoPor, "CONVERSAO_ERRO", map[string]any{"tipo": job.Tipo, "erro": job.Logs})
			continue
		}
		if err := s.repo.Reset(ctx, job.ID); err != nil {
			return err
		}
		if err := s.dispatch(ctx, job.ID, ""); err != nil {
			return err
		}
		s.log.Info().Str("job_id", job.ID).Int("tentativas", job.Tentativas).Msg("job reenfileirado")
	}

	pending, err := s.repo.ListPending(ctx, before, 50)
	if err != nil {
		return err
	}
	for _, job := range pending {
		if err := s.dispatch(ctx, job.ID, ""); err != nil {
			return err
		}
	}
	return nil
}

// dispatch enfileira o job; sem fila (ou com falha no push) processa na hora.
func (s *Service) dispatch(ctx context.Context, jobID, actorID string) error {
	if s.queue != nil {
		err := s.queue.Enqueue(ctx, jobID)
		if err == nil {
			return nil
		}
		s.log.Warn().Err(err).Str("job_id", jobID).Msg("fila indisponível; conversão executada localmente")
	}
	return s.Process(ctx, jobID, actorID)
}

// run copia as entradas para um diretório temporário e chama o conversor com timeout.
func (s *Service) run(ctx context.Context, job *entity.ConversionJob) (*Output, error) {
	if len(job.Inputs) == 0 {
		return nil, errors.New("Nenhum arquivo encontrado no job.")
	}
	workdir, err := os.MkdirTemp("", "gepub-conversor-")
	if err != nil {
		return nil, fmt.Errorf("diretório temporário: %w", err)
	}
	defer os.RemoveAll(workdir)

	inputs := append([]entity.ConversionJobInput(nil), job.Inputs...)
	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].Ordem < inputs[j].Ordem })
	paths := make([]string, 0, len(inputs))
	for i, in := range inputs {
		dst := filepath.Join(workdir, fmt.Sprintf("in_%d_%s", i+1, nomeSeguro(in.Nome, i)))
		if err := s.copyTo(ctx, in.StorageKey, dst); err != nil {
			return nil, err
		}
		paths = append(paths, dst)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	out, err := s.converter.Convert(ctx, job.Tipo, paths, workdir, job.Pages)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("tempo limite de %s excedido: %w", s.cfg.Timeout, err)
		}
		return nil, err
	}
	return out, nil
}

func (s *Service) copyTo(ctx context.Context, key, dst string) error {
	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("ler entrada %s: %w", key, err)
	}
	defer rc.Close()
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Service) put(ctx context.Context, key string, a Arquivo) error {
	if a.Abrir == nil {
		return domain.NewValidationError(conversor.FieldInput, "arquivo vazio")
	}
	rc, err := a.Abrir()
	if err != nil {
		return fmt.Errorf("abrir upload: %w", err)
	}
	defer rc.Close()
	return s.storage.Put(ctx, key, rc, a.Tamanho)
}

// cleanup remove entradas já gravadas quando a criação falha no meio.
func (s *Service) cleanup(ctx context.Context, job *entity.ConversionJob) {
	for _, in := range job.Inputs {
		if err := s.storage.Delete(ctx, in.StorageKey); err != nil {
			s.log.Warn().Err(err).Str("key", in.StorageKey).Msg("falha ao remover entrada órfã")
		}
	}
}

func (s *Service) load(ctx context.Context, p rbac.Principal, id string) (*entity.ConversionJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil || !visivel(p, job) {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// visivel jobs são compartilhados no município.
func visivel(p rbac.Principal, job *entity.ConversionJob) bool {
	if p.IsAdmin() {
		return true
	}
	return p.MunicipioID != "" && p.MunicipioID == job.MunicipioID
}

func (s *Service) audit(ctx context.Context, job *entity.ConversionJob, userID, evento string, depois map[string]any) {
	s.auditor.Registrar(ctx, entity.AuditoriaEvento{
		MunicipioID: job.MunicipioID,
		Modulo:      auditModulo,
		Evento:      evento,
		Entidade:    "ConversionJob",
		EntidadeID:  job.ID,
		UsuarioID:   userID,
		Depois:      ports.Snapshot(depois),
	})
}

// nomeSeguro nome base sem diretórios, com fallback arquivo_<n>.
func nomeSeguro(nome string, i int) string {
	base := path.Base(strings.ReplaceAll(nome, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return fmt.Sprintf("arquivo_%d", i+1)
	}
	return base
}

func toJobResponse(j *entity.ConversionJob) *dto.ConversionJobResponse {
	r := &dto.ConversionJobResponse{
		ID:             j.ID,
		Tipo:           j.Tipo,
		Status:         j.Status,
		Pages:          j.Pages,
		OutputNome:     j.OutputNome,
		Logs:           j.Logs,
		TamanhoEntrada: j.TamanhoEntrada,
		TamanhoSaida:   j.TamanhoSaida,
		DuracaoMS:      j.DuracaoMS,
		Tentativas:     j.Tentativas,
		Inputs:         make([]dto.ConversionInputResponse, 0, len(j.Inputs)),
		CreatedAt:      j.CreatedAt,
		ConcluidoEm:    j.ConcluidoEm,
	}
	if p := j.Primary(); p != nil {
		r.InputNome = p.Nome
	}
	for _, in := range j.Inputs {
		r.Inputs = append(r.Inputs, dto.ConversionInputResponse{Ordem: in.Ordem, Nome: in.Nome, Tamanho: in.Tamanho})
	}
	if j.Status == entity.JobConcluido {
		r.DownloadURL = "/api/conversor/jobs/" + j.ID + "/download"
	}
	return r
}
