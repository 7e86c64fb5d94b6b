package memory

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Conversor jobs e arquivos guardados em memória.
type Conversor struct {
	mu       sync.Mutex
	Jobs     map[string]*entity.ConversionJob
	Arquivos map[string][]byte
}

// NewConversor conversor vazio.
func NewConversor() *Conversor {
	return &Conversor{Jobs: map[string]*entity.ConversionJob{}, Arquivos: map[string][]byte{}}
}

func (c *Conversor) JobRepo() repository.ConversionJobRepository { return jobRepo{c} }

// Storage armazenamento de arquivos do conversor.
func (c *Conversor) Storage() ConversorStorage { return ConversorStorage{c} }

func copiaJob(j *entity.ConversionJob) *entity.ConversionJob {
	cp := *j
	cp.Inputs = append([]entity.ConversionJobInput(nil), j.Inputs...)
	return &cp
}

type jobRepo struct{ c *Conversor }

func (r jobRepo) Create(_ context.Context, job *entity.ConversionJob) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.Jobs[job.ID] = copiaJob(job)
	return nil
}

func (r jobRepo) GetByID(_ context.Context, id string) (*entity.ConversionJob, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if j, ok := r.c.Jobs[id]; ok {
		return copiaJob(j), nil
	}
	return nil, nil
}

func (r jobRepo) Claim(_ context.Context, id string) (*entity.ConversionJob, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	j, ok := r.c.Jobs[id]
	if !ok || j.Status != entity.JobPendente {
		return nil, nil
	}
	j.Status = entity.JobProcessando
	j.Tentativas++
	return copiaJob(j), nil
}

func (r jobRepo) Finish(_ context.Context, job *entity.ConversionJob) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	j, ok := r.c.Jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status, j.Logs, j.OutputKey, j.OutputNome = job.Status, job.Logs, job.OutputKey, job.OutputNome
	j.TamanhoSaida, j.DuracaoMS, j.ConcluidoEm = job.TamanhoSaida, job.DuracaoMS, job.ConcluidoEm
	return nil
}

func (r jobRepo) Reset(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	j, ok := r.c.Jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status, j.OutputKey, j.OutputNome, j.ConcluidoEm = entity.JobPendente, "", "", nil
	return nil
}

func (r jobRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.ConversionJob, int, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var all []*entity.ConversionJob
	for _, j := range r.c.Jobs {
		if j.MunicipioID != f.Scope.MunicipioID && f.Scope.MunicipioID != "" {
			continue
		}
		if (f.Status != "" && j.Status != f.Status) || (f.Tipo != "" && j.Tipo != f.Tipo) {
			continue
		}
		all = append(all, copiaJob(j))
	}
	items, total := paginate(all, f.Page)
	return items, total, nil
}

func (r jobRepo) ListStale(_ context.Context, before time.Time, limit int) ([]*entity.ConversionJob, error) {
	return r.antigos(entity.JobProcessando, before, limit), nil
}

func (r jobRepo) ListPending(_ context.Context, before time.Time, limit int) ([]*entity.ConversionJob, error) {
	return r.antigos(entity.JobPendente, before, limit), nil
}

func (r jobRepo) antigos(status string, before time.Time, limit int) []*entity.ConversionJob {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.ConversionJob
	for _, j := range r.c.Jobs {
		if j.Status == status && j.UpdatedAt.Before(before) && (limit <= 0 || len(out) < limit) {
			out = append(out, copiaJob(j))
		}
	}
	return out
}

// ConversorStorage arquivos por chave.
type ConversorStorage struct{ c *Conversor }

func (s ConversorStorage) Put(_ context.Context, key string, r io.Reader, _ int64) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.c.Arquivos[key] = b
	return nil
}

func (s ConversorStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	b, ok := s.c.Arquivos[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s ConversorStorage) Delete(_ context.Context, key string) error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	delete(s.c.Arquivos, key)
	return nil
}
