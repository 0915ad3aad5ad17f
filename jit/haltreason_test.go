package jit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a32jit/jit"
)

var _ = Describe("HaltMask", func() {
	var m *jit.HaltMask

	BeforeEach(func() {
		m = &jit.HaltMask{}
	})

	It("should start empty", func() {
		Expect(m.Current()).To(Equal(jit.HaltReason(0)))
	})

	It("should OR raised bits together", func() {
		m.Raise(jit.HaltReasonStep)
		m.Raise(jit.HaltReasonUser1)

		Expect(m.Current()).To(Equal(jit.HaltReasonStep | jit.HaltReasonUser1))
	})

	It("should lower only the given bits", func() {
		m.Raise(jit.HaltReasonStep | jit.HaltReasonCacheInvalidation | jit.HaltReasonUser4)

		m.Lower(jit.HaltReasonCacheInvalidation)

		Expect(m.Current()).To(Equal(jit.HaltReasonStep | jit.HaltReasonUser4))
	})

	It("should tolerate lowering bits that are not set", func() {
		m.Lower(jit.HaltReasonUser8)

		Expect(m.Current()).To(Equal(jit.HaltReason(0)))
	})
})

var _ = Describe("HaltReason", func() {
	Describe("Has", func() {
		It("should require every bit of the query", func() {
			hr := jit.HaltReasonStep | jit.HaltReasonUser1

			Expect(hr.Has(jit.HaltReasonStep)).To(BeTrue())
			Expect(hr.Has(jit.HaltReasonUser1)).To(BeTrue())
			Expect(hr.Has(jit.HaltReasonStep | jit.HaltReasonUser1)).To(BeTrue())
			Expect(hr.Has(jit.HaltReasonStep | jit.HaltReasonUser2)).To(BeFalse())
			Expect(hr.Has(0)).To(BeFalse())
		})
	})

	Describe("String", func() {
		It("should name single bits", func() {
			Expect(jit.HaltReasonCacheInvalidation.String()).To(Equal("CacheInvalidation"))
			Expect(jit.HaltReasonUser8.String()).To(Equal("User8"))
		})

		It("should join multiple bits", func() {
			hr := jit.HaltReasonStep | jit.HaltReasonUser1

			Expect(hr.String()).To(Equal("Step|User1"))
		})

		It("should report an empty mask", func() {
			Expect(jit.HaltReason(0).String()).To(Equal("none"))
		})

		It("should show unnamed bits in hex", func() {
			hr := jit.HaltReason(0x0000_0100)

			Expect(hr.String()).To(Equal("0x00000100"))
		})
	})
})
