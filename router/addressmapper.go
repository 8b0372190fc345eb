package router

// AddressMapper splits a global address space among targets.
type AddressMapper interface {
	// Decode returns the target that holds the address and the offset of the
	// address within that target. It returns false if no target holds it.
	Decode(address uint64) (index int, offset uint64, ok bool)

	// Compose is the inverse of Decode.
	Compose(index int, offset uint64) uint64

	// RegionSize returns the number of bytes each target owns.
	RegionSize() uint64

	// NumTargets returns the number of targets.
	NumTargets() int
}

// BankedAddressMapper gives every target one contiguous region of the same
// size. Target i owns [i*BankSize, (i+1)*BankSize).
type BankedAddressMapper struct {
	BankSize uint64
	NumBanks int
}

// NewBankedAddressMapper returns a new BankedAddressMapper.
func NewBankedAddressMapper(
	bankSize uint64,
	numBanks int,
) *BankedAddressMapper {
	if bankSize == 0 || numBanks <= 0 {
		panic("banked address mapper needs a bank size and banks")
	}

	return &BankedAddressMapper{
		BankSize: bankSize,
		NumBanks: numBanks,
	}
}

// Decode finds the bank of the address.
func (m *BankedAddressMapper) Decode(
	address uint64,
) (index int, offset uint64, ok bool) {
	i := address / m.BankSize
	if i >= uint64(m.NumBanks) {
		return 0, 0, false
	}

	return int(i), address % m.BankSize, true
}

// Compose turns a bank offset back into a global address.
func (m *BankedAddressMapper) Compose(index int, offset uint64) uint64 {
	return uint64(index)*m.BankSize + offset
}

// RegionSize returns the bank size.
func (m *BankedAddressMapper) RegionSize() uint64 {
	return m.BankSize
}

// NumTargets returns the number of banks.
func (m *BankedAddressMapper) NumTargets() int {
	return m.NumBanks
}
