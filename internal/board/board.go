// Package board arranges a job's applications into pipeline columns and
// supports optimistic moves that can be rolled back when the durable update
// fails downstream.
package board

import (
	"recruiting-platform/internal/models"
)

// Board groups applications by stage for the kanban view.
type Board struct {
	columns map[models.Stage][]*models.Application
}

// New builds a board from a flat application list, preserving input order
// within each column.
func New(apps []*models.Application) *Board {
	b := &Board{columns: make(map[models.Stage][]*models.Application, len(models.AllStages))}
	for _, stage := range models.AllStages {
		b.columns[stage] = nil
	}
	for _, app := range apps {
		b.columns[app.Stage] = append(b.columns[app.Stage], app)
	}
	return b
}

// Column returns the applications currently in a stage.
func (b *Board) Column(stage models.Stage) []*models.Application {
	return b.columns[stage]
}

// Columns returns every column keyed by stage, in board order.
func (b *Board) Columns() map[string][]*models.Application {
	out := make(map[string][]*models.Application, len(models.AllStages))
	for _, stage := range models.AllStages {
		out[string(stage)] = b.columns[stage]
	}
	return out
}

// Snapshot captures the board state before an optimistic move.
type Snapshot struct {
	columns map[models.Stage][]*models.Application
	stages  map[string]models.Stage
}

// Snapshot copies the current column layout and per-application stages so a
// failed move can be reverted exactly.
func (b *Board) Snapshot() *Snapshot {
	snap := &Snapshot{
		columns: make(map[models.Stage][]*models.Application, len(b.columns)),
		stages:  make(map[string]models.Stage),
	}
	for stage, apps := range b.columns {
		copied := make([]*models.Application, len(apps))
		copy(copied, apps)
		snap.columns[stage] = copied
		for _, app := range apps {
			snap.stages[app.ID] = app.Stage
		}
	}
	return snap
}

// Move shifts an application to a new column. Returns false when the
// application is not on the board.
func (b *Board) Move(applicationID string, to models.Stage) bool {
	for stage, apps := range b.columns {
		for i, app := range apps {
			if app.ID != applicationID {
				continue
			}
			b.columns[stage] = append(apps[:i:i], apps[i+1:]...)
			app.Stage = to
			b.columns[to] = append(b.columns[to], app)
			return true
		}
	}
	return false
}

// Revert restores the board to a snapshot taken before a failed move.
func (b *Board) Revert(snap *Snapshot) {
	b.columns = make(map[models.Stage][]*models.Application, len(snap.columns))
	for stage, apps := range snap.columns {
		copied := make([]*models.Application, len(apps))
		copy(copied, apps)
		b.columns[stage] = copied
		for _, app := range copied {
			app.Stage = snap.stages[app.ID]
		}
	}
}
