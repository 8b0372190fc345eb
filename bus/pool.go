package bus

import (
	"github.com/sarchlab/splitbus/sim"
	log "github.com/sirupsen/logrus"
)

func nextTransactionID() string {
	return sim.GetIDGenerator().Generate()
}

// A Pool recycles transactions. Released transactions are kept on an
// intrusive free list and handed out again by Allocate.
type Pool struct {
	freeList *Transaction
	size     int
	numFree  int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Allocate returns a transaction with no reference. The status is reset to
// incomplete and DMI is not allowed. Command, address, data and byte enable
// keep whatever the previous user left, so callers must set them.
func (p *Pool) Allocate() *Transaction {
	var t *Transaction

	if p.freeList != nil {
		t = p.freeList
		p.freeList = t.nextFree
		t.nextFree = nil
		t.inFree = false
		p.numFree--
	} else {
		t = &Transaction{pool: p}
		p.size++
	}

	t.ID = nextTransactionID()
	t.ResponseStatus = ResponseIncomplete
	t.DMIAllowed = false
	t.refCount = 0

	return t
}

func (p *Pool) free(t *Transaction) {
	if t.inFree {
		log.Panicf("double free of transaction %s", t.ID)
	}

	t.gen++
	t.inFree = true
	t.nextFree = p.freeList
	p.freeList = t
	p.numFree++
}

// Size returns the number of transactions the pool has created.
func (p *Pool) Size() int {
	return p.size
}

// NumFree returns the number of transactions waiting on the free list.
func (p *Pool) NumFree() int {
	return p.numFree
}

// NumInUse returns the number of transactions handed out and not yet
// returned.
func (p *Pool) NumInUse() int {
	return p.size - p.numFree
}
