package ports

import (
	"context"
	"encoding/json"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// Auditor registra eventos de auditoria e de transparência.
// As implementações são best-effort: falhas são logadas e nunca interrompem a operação.
type Auditor interface {
	Registrar(ctx context.Context, ev entity.AuditoriaEvento)
	Publicar(ctx context.Context, ev entity.TransparenciaEvento)
}

// NopAuditor descarta os eventos (testes e ferramentas de linha de comando).
type NopAuditor struct{}

func (NopAuditor) Registrar(context.Context, entity.AuditoriaEvento)   {}
func (NopAuditor) Publicar(context.Context, entity.TransparenciaEvento) {}

// Snapshot serializa v para os campos antes/depois; falha de serialização vira nil.
func Snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
