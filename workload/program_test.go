package workload

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/splitbus/bus"
)

var _ = Describe("Programs", func() {
	It("should write then read every register", func() {
		p := Registers(0x100)

		Expect(p.Steps).To(HaveLen(10))
		for i := 0; i < 5; i++ {
			Expect(p.Steps[i].Command).To(Equal(bus.CommandWrite))
			Expect(p.Steps[i].Address).To(Equal(uint64(0x100 + i*4)))
			Expect(binary.LittleEndian.Uint32(p.Steps[i].Data)).
				To(Equal(uint32(i)))
			Expect(p.Steps[5+i].Command).To(Equal(bus.CommandRead))
			Expect(p.Steps[5+i].Address).To(Equal(uint64(0x100 + i*4)))
		}
	})

	It("should give every step its own buffer", func() {
		p := Scan(0, 16)

		Expect(p.Steps).To(HaveLen(4))
		p.Steps[0].Data[0] = 0xff
		Expect(p.Steps[1].Data[0]).To(BeZero())
	})

	It("should skip a trailing partial word when scanning", func() {
		Expect(Scan(0, 10).Steps).To(HaveLen(2))
	})

	It("should program an addition", func() {
		p := Compute(0x300, 7, 5)

		Expect(p.Steps).To(HaveLen(5))
		Expect(p.Steps[2].Address).To(Equal(uint64(0x300)))
		Expect(binary.LittleEndian.Uint32(p.Steps[2].Data)).To(Equal(uint32(1)))
		Expect(p.Steps[4].Address).To(Equal(uint64(0x310)))
	})

	It("should find programs by name", func() {
		Expect(ProgramNames()).To(Equal([]string{"compute", "registers", "scan"}))

		p, err := ByName("scan", 0x100, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Steps).To(HaveLen(2))

		_, err = ByName("fft", 0, 0)
		Expect(err).To(HaveOccurred())
	})
})
