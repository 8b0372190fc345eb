package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an access reaches beyond the storage.
var ErrOutOfRange = errors.New("accessing address beyond the storage capacity")

// A Storage keeps the data of a memory target in one contiguous buffer, so
// that the buffer can be handed out for direct access.
type Storage struct {
	data []byte
}

// NewStorage creates a zeroed storage with the specified capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{data: make([]byte, capacity)}
}

// Capacity returns the size of the storage in bytes.
func (s *Storage) Capacity() uint64 {
	return uint64(len(s.data))
}

// Bytes exposes the backing buffer.
func (s *Storage) Bytes() []byte {
	return s.data
}

func (s *Storage) mustBeInRange(address, length uint64) error {
	if address > s.Capacity() || length > s.Capacity()-address {
		return fmt.Errorf("%w: 0x%x+%d, capacity %d",
			ErrOutOfRange, address, length, s.Capacity())
	}

	return nil
}

// Read returns a copy of length bytes starting at address.
func (s *Storage) Read(address, length uint64) ([]byte, error) {
	if err := s.mustBeInRange(address, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)
	copy(res, s.data[address:address+length])

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	if err := s.mustBeInRange(address, uint64(len(data))); err != nil {
		return err
	}

	copy(s.data[address:], data)

	return nil
}

// FillWithOffsets makes every aligned 32-bit little-endian word hold its own
// byte offset.
func (s *Storage) FillWithOffsets() {
	for i := 0; i+4 <= len(s.data); i += 4 {
		binary.LittleEndian.PutUint32(s.data[i:], uint32(i))
	}
}
