package processing

import (
	"sync"

	"github.com/clearstream/clearstream/internal/engine"
)

// Processor serializes access to a single engine. Different client ids would
// commute, but the engine's snapshot/rollback mutation is not safe under
// interleaving, so every submission takes the one writer lock.
type Processor struct {
	mu  sync.Mutex
	eng *engine.Engine
}

// New wraps a fresh engine.
func New() *Processor {
	return &Processor{eng: engine.New()}
}

// Submit applies one transaction and, when it touched an account, returns that
// account's post-operation snapshot.
func (p *Processor) Submit(tx engine.Transaction) (engine.OutputItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.eng.ProcessTransaction(tx)
	item, _ := p.eng.OutputItemFor(tx.ClientID)
	return item, err
}

// Snapshot returns the committed state of every account.
func (p *Processor) Snapshot() []engine.OutputItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eng.OutputItems()
}

// SnapshotFor returns one account's committed state.
func (p *Processor) SnapshotFor(clientID uint16) (engine.OutputItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eng.OutputItemFor(clientID)
}
