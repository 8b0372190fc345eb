package bus

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ValidateAccess", func() {
	var trans *Transaction

	BeforeEach(func() {
		trans = NewTransaction()
		trans.Command = CommandRead
		trans.Address = 16
		trans.SetData(make([]byte, 4))
	})

	It("should accept a normal access", func() {
		Expect(ValidateAccess(trans, 256)).To(Equal(ResponseOK))
	})

	It("should reject addresses beyond the store", func() {
		trans.Address = 256
		Expect(ValidateAccess(trans, 256)).To(Equal(ResponseAddressError))

		trans.Address = 254
		Expect(ValidateAccess(trans, 256)).To(Equal(ResponseAddressError))
	})

	It("should reject byte enables", func() {
		trans.ByteEnable = []byte{0xff, 0, 0xff, 0}
		Expect(ValidateAccess(trans, 256)).To(Equal(ResponseByteEnableError))
	})

	It("should reject long bursts", func() {
		trans.SetData(make([]byte, 8))
		Expect(ValidateAccess(trans, 256)).To(Equal(ResponseBurstError))
	})

	It("should reject narrow streaming", func() {
		trans.StreamingWidth = 2
		Expect(ValidateAccess(trans, 256)).To(Equal(ResponseBurstError))
	})

	It("should reject a short data buffer", func() {
		trans.Data = make([]byte, 2)
		Expect(ValidateAccess(trans, 256)).To(Equal(ResponseGenericError))
	})

	It("should check the address before the burst", func() {
		trans.Address = 1000
		trans.ByteEnable = []byte{0xff}
		Expect(ValidateAccess(trans, 256)).To(Equal(ResponseAddressError))
	})
})

var _ = Describe("Violation", func() {
	It("should panic with a protocol error", func() {
		trans := NewTransaction()

		Expect(func() {
			Violation("Core", trans, RequestBegin, "unexpected %s", "phase")
		}).To(PanicWith(BeAssignableToTypeOf(&ProtocolError{})))
	})
})
