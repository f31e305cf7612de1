package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

const replayPageSize = 500

// Reconciler verifica que cada celda del libro coincida con la suma de los deltas del diario.
type Reconciler struct {
	runner SnapshotRunner
}

// NewReconciler construye el verificador.
func NewReconciler(runner SnapshotRunner) *Reconciler {
	return &Reconciler{runner: runner}
}

// Verify reproduce el diario completo sobre una vista consistente y devuelve las celdas
// cuya cantidad registrada difiere de la reconstruida.
func (r *Reconciler) Verify(ctx context.Context) (*dto.VerifyLedgerResponse, error) {
	out := &dto.VerifyLedgerResponse{Discrepancies: []dto.DiscrepancyDTO{}}
	err := r.runner.RunSnapshot(ctx, func(s repository.Stores) error {
		replayed := make(map[entity.StockKey]int64)
		out.Movements = 0
		for offset := 0; ; offset += replayPageSize {
			page, err := s.Movements.List(ctx, repository.MovementFilter{Limit: replayPageSize, Offset: offset})
			if err != nil {
				return err
			}
			for _, m := range page {
				for _, d := range m.Deltas() {
					replayed[d.Key] += d.Delta
				}
			}
			out.Movements += len(page)
			if len(page) < replayPageSize {
				break
			}
		}

		cells, err := s.Stock.List(ctx, repository.StockFilter{})
		if err != nil {
			return err
		}
		out.Cells = len(cells)
		recorded := make(map[entity.StockKey]int64, len(cells))
		for _, c := range cells {
			recorded[c.Key()] = c.Quantity
		}

		keys := make(map[entity.StockKey]struct{}, len(recorded)+len(replayed))
		for k := range recorded {
			keys[k] = struct{}{}
		}
		for k := range replayed {
			keys[k] = struct{}{}
		}
		for k := range keys {
			if recorded[k] != replayed[k] {
				out.Discrepancies = append(out.Discrepancies, dto.DiscrepancyDTO{
					ProductID:  k.ProductID,
					LocationID: k.LocationID,
					Recorded:   recorded[k],
					Replayed:   replayed[k],
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out.Discrepancies, func(i, j int) bool {
		a, b := out.Discrepancies[i], out.Discrepancies[j]
		if a.LocationID != b.LocationID {
			return a.LocationID < b.LocationID
		}
		return a.ProductID < b.ProductID
	})
	out.Consistent = len(out.Discrepancies) == 0
	return out, nil
}
