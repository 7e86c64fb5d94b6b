package memory

import (
	"context"
	"sync"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// Auditor guarda os eventos recebidos para asserções.
type Auditor struct {
	mu            sync.Mutex
	Eventos       []entity.AuditoriaEvento
	Transparencia []entity.TransparenciaEvento
}

func (a *Auditor) Registrar(_ context.Context, ev entity.AuditoriaEvento) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Eventos = append(a.Eventos, ev)
}

func (a *Auditor) Publicar(_ context.Context, ev entity.TransparenciaEvento) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Transparencia = append(a.Transparencia, ev)
}

// Nomes eventos de auditoria na ordem em que chegaram.
func (a *Auditor) Nomes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Eventos))
	for _, e := range a.Eventos {
		out = append(out, e.Evento)
	}
	return out
}
