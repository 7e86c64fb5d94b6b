package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/pkg/logger"
	"github.com/gepub/gepub-api/pkg/textutil"
)

var _ ports.Auditor = (*AuditoriaService)(nil)

// AuditoriaService grava a trilha de auditoria e os eventos de transparência.
type AuditoriaService struct {
	auditRepo  repository.AuditoriaRepository
	transpRepo repository.TransparenciaRepository
	munRepo    repository.MunicipioRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewAuditoriaService constrói o serviço.
func NewAuditoriaService(
	auditRepo repository.AuditoriaRepository,
	transpRepo repository.TransparenciaRepository,
	munRepo repository.MunicipioRepository,
	log *logger.Logger,
) *AuditoriaService {
	return &AuditoriaService{
		auditRepo:  auditRepo,
		transpRepo: transpRepo,
		munRepo:    munRepo,
		log:        log.Named("auditoria"),
		now:        time.Now,
	}
}

// Registrar grava o evento; erros só vão para o log.
func (s *AuditoriaService) Registrar(ctx context.Context, ev entity.AuditoriaEvento) {
	ev.ID = uuid.New().String()
	ev.Modulo = textutil.Truncate(strings.ToUpper(strings.TrimSpace(ev.Modulo)), 40)
	ev.Evento = textutil.Truncate(ev.Evento, 80)
	ev.Entidade = textutil.Truncate(ev.Entidade, 80)
	ev.Observacao = textutil.Truncate(ev.Observacao, 200)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now()
	}
	if err := s.auditRepo.Create(ctx, &ev); err != nil {
		s.log.Error().Err(err).Str("modulo", ev.Modulo).Str("evento", ev.Evento).Msg("falha ao registrar auditoria")
	}
}

// Publicar grava o evento de transparência; erros só vão para o log.
func (s *AuditoriaService) Publicar(ctx context.Context, ev entity.TransparenciaEvento) {
	if ev.MunicipioID == "" {
		return
	}
	ev.ID = uuid.New().String()
	ev.Modulo = strings.ToUpper(strings.TrimSpace(ev.Modulo))
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now()
	}
	if err := s.transpRepo.Create(ctx, &ev); err != nil {
		s.log.Error().Err(err).Str("modulo", ev.Modulo).Str("tipo_evento", ev.TipoEvento).Msg("falha ao publicar evento de transparência")
	}
}

// AuditoriaFiltro filtros da consulta à trilha.
type AuditoriaFiltro struct {
	MunicipioID string
	Modulo      string
	EntidadeID  string
	Evento      string
	Page        repository.Page
}

// List consulta a trilha do município (auditoria.view).
func (s *AuditoriaService) List(ctx context.Context, p rbac.Principal, f AuditoriaFiltro) (*dto.ListResponse[dto.AuditoriaResponse], error) {
	scope := rbac.ScopeFor(p)
	if scope.None {
		return nil, domain.ErrForbidden
	}
	municipioID := f.MunicipioID
	if !scope.All {
		municipioID = scope.MunicipioID
	}
	list, total, err := s.auditRepo.List(ctx, repository.ListFilter{
		Scope:    rbac.Scope{All: true},
		ParentID: municipioID,
		Tipo:     strings.ToUpper(f.Modulo),
		Q:        f.EntidadeID,
		Status:   f.Evento,
		Page:     f.Page,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditoriaResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.AuditoriaResponse{
			ID:         e.ID,
			Modulo:     e.Modulo,
			Evento:     e.Evento,
			Entidade:   e.Entidade,
			EntidadeID: e.EntidadeID,
			UsuarioID:  e.UsuarioID,
			Antes:      e.Antes,
			Depois:     e.Depois,
			Observacao: e.Observacao,
			CreatedAt:  e.CreatedAt,
		})
	}
	return &dto.ListResponse[dto.AuditoriaResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// Transparencia lista os eventos públicos do município pelo slug do portal.
func (s *AuditoriaService) Transparencia(ctx context.Context, slug string, page repository.Page) (*dto.ListResponse[dto.TransparenciaResponse], error) {
	m, err := s.munRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if m == nil || !m.Ativo {
		return nil, domain.ErrNotFound
	}
	list, total, err := s.transpRepo.ListPublic(ctx, m.ID, page)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransparenciaResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.TransparenciaResponse{
			Modulo:     e.Modulo,
			TipoEvento: e.TipoEvento,
			Titulo:     e.Titulo,
			Descricao:  e.Descricao,
			Referencia: e.Referencia,
			Valor:      e.Valor,
			Dados:      e.Dados,
			CreatedAt:  e.CreatedAt,
		})
	}
	return &dto.ListResponse[dto.TransparenciaResponse]{Items: items, Page: dto.NewPage(page, total)}, nil
}
