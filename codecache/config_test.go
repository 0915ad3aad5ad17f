package codecache_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a32jit/codecache"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("should validate", func() {
			Expect(codecache.DefaultConfig().Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("should reject a non-positive block count", func() {
			cfg := codecache.DefaultConfig()
			cfg.NumBlocks = 0

			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a block count not divisible by associativity", func() {
			cfg := codecache.Config{NumBlocks: 10, Associativity: 4, BlockSpan: 64}

			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a non-power-of-two span", func() {
			cfg := codecache.Config{NumBlocks: 8, Associativity: 2, BlockSpan: 100}

			Expect(cfg.Validate()).NotTo(Succeed())
		})
	})

	Describe("LoadConfig", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should keep defaults for absent fields", func() {
			path := filepath.Join(dir, "cache.json")
			Expect(os.WriteFile(path, []byte(`{"num_blocks": 1024}`), 0644)).To(Succeed())

			cfg, err := codecache.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.NumBlocks).To(Equal(1024))
			Expect(cfg.Associativity).To(Equal(codecache.DefaultConfig().Associativity))
			Expect(cfg.BlockSpan).To(Equal(codecache.DefaultConfig().BlockSpan))
		})

		It("should report a missing file", func() {
			_, err := codecache.LoadConfig(filepath.Join(dir, "nope.json"))

			Expect(err).To(HaveOccurred())
		})

		It("should report malformed JSON", func() {
			path := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{num_blocks`), 0644)).To(Succeed())

			_, err := codecache.LoadConfig(path)

			Expect(err).To(HaveOccurred())
		})

		It("should reject invalid geometry from a file", func() {
			path := filepath.Join(dir, "invalid.json")
			Expect(os.WriteFile(path, []byte(`{"num_blocks": 3, "associativity": 2}`), 0644)).To(Succeed())

			_, err := codecache.LoadConfig(path)

			Expect(err).To(HaveOccurred())
		})

		It("should round-trip through SaveConfig", func() {
			path := filepath.Join(dir, "rt.json")
			cfg := codecache.Config{NumBlocks: 512, Associativity: 8, BlockSpan: 128}

			Expect(cfg.SaveConfig(path)).To(Succeed())
			loaded, err := codecache.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})
	})
})
