package memory

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	It("should read and write", func() {
		storage := NewStorage(64)
		Expect(storage.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := storage.Read(0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should return copies on read", func() {
		storage := NewStorage(8)
		res, _ := storage.Read(0, 4)
		res[0] = 9

		Expect(storage.Bytes()[0]).To(BeZero())
	})

	It("should return error if accessing over the capacity", func() {
		storage := NewStorage(16)

		err := storage.Write(15, []byte{1, 2})
		Expect(err).To(MatchError(ErrOutOfRange))

		_, err = storage.Read(17, 1)
		Expect(err).To(MatchError(ErrOutOfRange))
	})

	It("should fill words with their offsets", func() {
		storage := NewStorage(16)
		storage.FillWithOffsets()

		Expect(storage.Bytes()).To(Equal([]byte{
			0, 0, 0, 0,
			4, 0, 0, 0,
			8, 0, 0, 0,
			12, 0, 0, 0,
		}))
	})
})
