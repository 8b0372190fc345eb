package bus

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Command is the kind of access a transaction performs.
type Command uint8

// Commands.
const (
	CommandRead Command = iota
	CommandWrite
)

func (c Command) String() string {
	switch c {
	case CommandRead:
		return "read"
	case CommandWrite:
		return "write"
	default:
		return fmt.Sprintf("command(%d)", uint8(c))
	}
}

// ResponseStatus is the outcome of a transaction, written by the target.
type ResponseStatus uint8

// Response statuses. Every transaction starts as ResponseIncomplete.
const (
	ResponseIncomplete ResponseStatus = iota
	ResponseOK
	ResponseAddressError
	ResponseByteEnableError
	ResponseBurstError
	ResponseGenericError
)

var responseStatusNames = map[ResponseStatus]string{
	ResponseIncomplete:      "incomplete",
	ResponseOK:              "ok",
	ResponseAddressError:    "address-error",
	ResponseByteEnableError: "byte-enable-error",
	ResponseBurstError:      "burst-error",
	ResponseGenericError:    "generic-error",
}

func (s ResponseStatus) String() string {
	if name, ok := responseStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("status(%d)", uint8(s))
}

// IsError tells if the status reports a failed access. An incomplete
// response counts as an error since no target completed it.
func (s ResponseStatus) IsError() bool {
	return s != ResponseOK
}

// A Transaction is the unit of work carried between initiators and targets.
//
// Transactions that come from a Pool are reference counted. Every module that
// keeps a transaction beyond the call it received it in must Acquire it and
// Release it when done. When the count drops to zero, the transaction goes
// back to its pool and must not be touched again.
type Transaction struct {
	ID string

	Command        Command
	Address        uint64
	Data           []byte
	Length         int
	StreamingWidth int
	ByteEnable     []byte

	ResponseStatus ResponseStatus
	DMIAllowed     bool

	pool     *Pool
	gen      uint64
	refCount int
	nextFree *Transaction
	inFree   bool
}

// NewTransaction creates a transaction that does not belong to any pool.
// Blocking and debug accesses use such transactions.
func NewTransaction() *Transaction {
	return &Transaction{
		ID: nextTransactionID(),
	}
}

// Acquire adds one reference to the transaction.
func (t *Transaction) Acquire() {
	if t.inFree {
		log.Panicf("acquiring transaction %s that is in the free list", t.ID)
	}

	t.refCount++
}

// Release drops one reference. The last release returns the transaction to
// its pool.
func (t *Transaction) Release() {
	if t.refCount <= 0 {
		log.Panicf("releasing transaction %s with no reference", t.ID)
	}

	t.refCount--
	if t.refCount > 0 {
		return
	}

	if t.pool != nil {
		t.pool.free(t)
		return
	}

	t.gen++
}

// RefCount returns the number of references currently held.
func (t *Transaction) RefCount() int {
	return t.refCount
}

// Handle returns a reference to the transaction that detects reuse.
func (t *Transaction) Handle() Handle {
	return Handle{trans: t, gen: t.gen}
}

// IsResponseOK tells if the target completed the access successfully.
func (t *Transaction) IsResponseOK() bool {
	return t.ResponseStatus == ResponseOK
}

// IsResponseError tells if the transaction carries an error status.
func (t *Transaction) IsResponseError() bool {
	return t.ResponseStatus.IsError()
}

// ResponseString returns the response status as text.
func (t *Transaction) ResponseString() string {
	return t.ResponseStatus.String()
}

// SetData sets the data buffer, the length and a streaming width equal to
// the length.
func (t *Transaction) SetData(data []byte) {
	t.Data = data
	t.Length = len(data)
	t.StreamingWidth = len(data)
}

// Reset clears every field that a caller sets before issuing a transaction.
func (t *Transaction) Reset() {
	t.Command = CommandRead
	t.Address = 0
	t.Data = nil
	t.Length = 0
	t.StreamingWidth = 0
	t.ByteEnable = nil
	t.ResponseStatus = ResponseIncomplete
	t.DMIAllowed = false
}

func (t *Transaction) String() string {
	return fmt.Sprintf("%s %s 0x%x len=%d status=%s",
		t.ID, t.Command, t.Address, t.Length, t.ResponseStatus)
}

// Handle is a reference to a transaction taken at a certain point of its
// life. Dereferencing a handle after the transaction went back to its pool
// panics.
type Handle struct {
	trans *Transaction
	gen   uint64
}

// Valid tells if the transaction has not been recycled since the handle was
// taken.
func (h Handle) Valid() bool {
	return h.trans != nil && h.trans.gen == h.gen
}

// Trans returns the referenced transaction.
func (h Handle) Trans() *Transaction {
	if h.trans == nil {
		log.Panic("dereferencing an empty transaction handle")
	}

	if h.trans.gen != h.gen {
		log.Panicf("transaction %s was recycled after the handle was taken",
			h.trans.ID)
	}

	return h.trans
}
