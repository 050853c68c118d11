package ledger

import (
	"context"
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// MemoryEdges is an in-memory storage.Edges. It is used to replay history
// without touching the live ledger, and is not safe for concurrent use.
type MemoryEdges struct {
	edges map[string]map[models.Pair]models.DebtEdge
}

var _ storage.Edges = (*MemoryEdges)(nil)

// NewMemoryEdges returns an empty edge set.
func NewMemoryEdges() *MemoryEdges {
	return &MemoryEdges{edges: make(map[string]map[models.Pair]models.DebtEdge)}
}

func (m *MemoryEdges) GetEdge(_ context.Context, groupID, from, to string) (*models.DebtEdge, error) {
	edge, ok := m.edges[groupID][models.Pair{From: from, To: to}]
	if !ok {
		return nil, nil
	}
	return &edge, nil
}

func (m *MemoryEdges) PutEdge(_ context.Context, edge *models.DebtEdge) error {
	group, ok := m.edges[edge.GroupID]
	if !ok {
		group = make(map[models.Pair]models.DebtEdge)
		m.edges[edge.GroupID] = group
	}
	group[edge.Key()] = *edge
	return nil
}

func (m *MemoryEdges) DeleteEdge(_ context.Context, groupID, from, to string) error {
	delete(m.edges[groupID], models.Pair{From: from, To: to})
	return nil
}

func (m *MemoryEdges) ListEdges(_ context.Context, groupID string) ([]models.DebtEdge, error) {
	group := m.edges[groupID]
	out := make([]models.DebtEdge, 0, len(group))
	for _, e := range group {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out, nil
}
