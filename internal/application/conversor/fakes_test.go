package conversor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

type jobRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.ConversionJob
}

func newJobRepo() *jobRepo { return &jobRepo{jobs: map[string]*entity.ConversionJob{}} }

func (r *jobRepo) copyOf(j *entity.ConversionJob) *entity.ConversionJob {
	c := *j
	c.Inputs = append([]entity.ConversionJobInput(nil), j.Inputs...)
	return &c
}

func (r *jobRepo) Create(_ context.Context, job *entity.ConversionJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = r.copyOf(job)
	return nil
}

func (r *jobRepo) GetByID(_ context.Context, id string) (*entity.ConversionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		return r.copyOf(j), nil
	}
	return nil, nil
}

func (r *jobRepo) Claim(_ context.Context, id string) (*entity.ConversionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.Status != entity.JobPendente {
		return nil, nil
	}
	j.Status = entity.JobProcessando
	j.Tentativas++
	return r.copyOf(j), nil
}

func (r *jobRepo) Finish(_ context.Context, job *entity.ConversionJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.jobs[job.ID]
	j.Status, j.Logs, j.OutputKey, j.OutputNome = job.Status, job.Logs, job.OutputKey, job.OutputNome
	j.TamanhoSaida, j.DuracaoMS, j.ConcluidoEm = job.TamanhoSaida, job.DuracaoMS, job.ConcluidoEm
	return nil
}

func (r *jobRepo) Reset(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.jobs[id]
	j.Status, j.OutputKey, j.OutputNome, j.ConcluidoEm = entity.JobPendente, "", "", nil
	return nil
}

func (r *jobRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.ConversionJob, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ConversionJob
	for _, j := range r.jobs {
		if f.Scope.Contains(j.MunicipioID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) &&
			(f.Status == "" || f.Status == j.Status) && (f.Tipo == "" || f.Tipo == j.Tipo) {
			out = append(out, r.copyOf(j))
		}
	}
	return out, len(out), nil
}

func (r *jobRepo) ListStale(_ context.Context, _ time.Time, _ int) ([]*entity.ConversionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ConversionJob
	for _, j := range r.jobs {
		if j.Status == entity.JobProcessando {
			out = append(out, r.copyOf(j))
		}
	}
	return out, nil
}

func (r *jobRepo) ListPending(_ context.Context, _ time.Time, _ int) ([]*entity.ConversionJob, error) {
	return nil, nil
}

type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newStorage() *memStorage { return &memStorage{files: map[string][]byte{}} }

func (s *memStorage) Put(_ context.Context, key string, r io.Reader, _ int64) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = b
	return nil
}

func (s *memStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

type fakeQueue struct {
	mu   sync.Mutex
	ids  []string
	fail bool
}

func (q *fakeQueue) Enqueue(_ context.Context, id string) error {
	if q.fail {
		return errors.New("redis fora do ar")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
	return nil
}

func (q *fakeQueue) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	q.mu.Lock()
	if len(q.ids) > 0 {
		id := q.ids[0]
		q.ids = q.ids[1:]
		q.mu.Unlock()
		return id, nil
	}
	q.mu.Unlock()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(timeout):
		return "", nil
	}
}

// fakeConverter concatena as entradas; err força falha.
type fakeConverter struct {
	err    error
	inputs []string
}

func (c *fakeConverter) Convert(_ context.Context, tipo string, inputs []string, _ string, _ string) (*Output, error) {
	c.inputs = inputs
	if c.err != nil {
		return nil, c.err
	}
	return &Output{Nome: "saida.pdf", Conteudo: []byte("%PDF-" + tipo), Logs: "ok"}, nil
}

type fixedMunicipio struct{}

func (fixedMunicipio) ResolveMunicipio(_ context.Context, p rbac.Principal, requested string) (string, error) {
	if p.IsAdmin() && requested != "" {
		return requested, nil
	}
	if p.MunicipioID == "" {
		return "m1", nil
	}
	return p.MunicipioID, nil
}

func upload(nome, conteudo string) Arquivo {
	return Arquivo{
		Nome:    nome,
		Tamanho: int64(len(conteudo)),
		Abrir:   func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader([]byte(conteudo))), nil },
	}
}
