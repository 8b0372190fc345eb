package router

import (
	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
)

// Builder can build routers.
type Builder struct {
	numTargets int
	regionSize uint64
	mapper     AddressMapper
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		numTargets: 4,
		regionSize: 256,
	}
}

// WithNumTargets sets the number of targets.
func (b Builder) WithNumTargets(n int) Builder {
	b.numTargets = n
	return b
}

// WithRegionSize sets the size of the region each target owns.
func (b Builder) WithRegionSize(size uint64) Builder {
	b.regionSize = size
	return b
}

// WithAddressMapper replaces the default banked layout.
func (b Builder) WithAddressMapper(m AddressMapper) Builder {
	b.mapper = m
	return b
}

// Build creates a router.
func (b Builder) Build(name string) *Comp {
	mapper := b.mapper
	if mapper == nil {
		mapper = NewBankedAddressMapper(b.regionSize, b.numTargets)
	}

	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		mapper:        mapper,
		routes:        make(map[bus.Handle]route),
		numForwarded:  make([]uint64, mapper.NumTargets()),
	}

	for i := 0; i < mapper.NumTargets(); i++ {
		c.ports = append(c.ports, &targetPort{router: c, index: i})
	}

	return c
}
