package codecache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a32jit/codecache"
	"github.com/sarchlab/a32jit/state"
)

var _ = Describe("Cache", func() {
	var c *codecache.Cache

	newEntry := func(addr, marker uint32) codecache.Entry {
		return codecache.Entry{
			GuestAddr: addr,
			GuestLen:  marker,
			Fn:        func(r *state.RegFile) { r.Regs[1] = marker },
		}
	}

	BeforeEach(func() {
		c = codecache.New(codecache.Config{
			NumBlocks:     8,
			Associativity: 2,
			BlockSpan:     64,
		})
	})

	Describe("Lookup", func() {
		It("should miss on an empty cache", func() {
			_, ok := c.Lookup(0x1000)

			Expect(ok).To(BeFalse())
			Expect(c.Stats().Misses).To(Equal(uint64(1)))
		})

		It("should hit after an insert", func() {
			c.Insert(newEntry(0x1000, 7))

			entry, ok := c.Lookup(0x1000)

			Expect(ok).To(BeTrue())
			Expect(entry.GuestLen).To(Equal(uint32(7)))
			Expect(c.Stats().Hits).To(Equal(uint64(1)))
		})

		It("should hit anywhere within the entry's block span", func() {
			c.Insert(newEntry(0x1000, 7))

			_, ok := c.Lookup(0x103C)

			Expect(ok).To(BeTrue())
		})

		It("should miss outside the entry's block span", func() {
			c.Insert(newEntry(0x1000, 7))

			_, ok := c.Lookup(0x1040)

			Expect(ok).To(BeFalse())
		})

		It("should return a runnable block", func() {
			c.Insert(newEntry(0x2000, 42))
			regs := state.NewRegFile()

			entry, ok := c.Lookup(0x2000)
			Expect(ok).To(BeTrue())
			entry.Fn(regs)

			Expect(regs.Regs[1]).To(Equal(uint32(42)))
		})
	})

	Describe("Insert", func() {
		It("should replace a block cached for the same span without evicting", func() {
			c.Insert(newEntry(0x1000, 1))
			c.Insert(newEntry(0x1004, 2))

			entry, ok := c.Lookup(0x1000)

			Expect(ok).To(BeTrue())
			Expect(entry.GuestLen).To(Equal(uint32(2)))
			Expect(c.Stats().Evictions).To(Equal(uint64(0)))
		})

		It("should evict the least recently used way of a full set", func() {
			// 8 blocks, 2-way, 64B span: 4 sets. These three addresses
			// all map to set 0.
			c.Insert(newEntry(0x0000, 1))
			c.Insert(newEntry(0x0400, 2))
			c.Insert(newEntry(0x0800, 3))

			Expect(c.Stats().Evictions).To(Equal(uint64(1)))

			_, ok := c.Lookup(0x0000)
			Expect(ok).To(BeFalse())
			_, ok = c.Lookup(0x0400)
			Expect(ok).To(BeTrue())
			_, ok = c.Lookup(0x0800)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("ClearCache", func() {
		It("should discard every block", func() {
			c.Insert(newEntry(0x1000, 1))
			c.Insert(newEntry(0x2000, 2))

			c.ClearCache()

			_, ok := c.Lookup(0x1000)
			Expect(ok).To(BeFalse())
			_, ok = c.Lookup(0x2000)
			Expect(ok).To(BeFalse())
			Expect(c.Stats().Clears).To(Equal(uint64(1)))
		})

		It("should leave the cache usable afterward", func() {
			c.Insert(newEntry(0x1000, 1))
			c.ClearCache()

			c.Insert(newEntry(0x1000, 9))
			entry, ok := c.Lookup(0x1000)

			Expect(ok).To(BeTrue())
			Expect(entry.GuestLen).To(Equal(uint32(9)))
		})
	})

	Describe("New", func() {
		It("should panic on invalid geometry", func() {
			Expect(func() {
				codecache.New(codecache.Config{NumBlocks: 7, Associativity: 2, BlockSpan: 64})
			}).To(Panic())
		})
	})
})
