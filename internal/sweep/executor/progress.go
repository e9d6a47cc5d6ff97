package executor

import (
	"sync/atomic"

	"github/chapool/go-sweeper/internal/sweep/model"
)

// Progress counts plan items as they move through a run. It is safe for
// concurrent use and may be read while a run is in progress.
type Progress struct {
	planned   atomic.Int64
	inFlight  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

func (p *Progress) begin(planned int) {
	p.planned.Store(int64(planned))
	p.inFlight.Store(0)
	p.succeeded.Store(0)
	p.failed.Store(0)
}

func (p *Progress) started() {
	p.inFlight.Add(1)
}

func (p *Progress) finished(res model.TransactionResult, wasStarted bool) {
	if wasStarted {
		p.inFlight.Add(-1)
	}

	if res.Succeeded() {
		p.succeeded.Add(1)
	} else {
		p.failed.Add(1)
	}
}

// Snapshot returns the executor part of a summary.
func (p *Progress) Snapshot() model.Summary {
	planned := int(p.planned.Load())
	succeeded := int(p.succeeded.Load())
	failed := int(p.failed.Load())

	return model.Summary{
		Planned:   planned,
		InFlight:  int(p.inFlight.Load()),
		Succeeded: succeeded,
		Failed:    failed,
		Remaining: planned - succeeded - failed,
	}
}
