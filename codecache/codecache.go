// Package codecache provides the translated-block store for the
// translator: a set-associative cache of host routines standing in for
// generated code, keyed by guest address. Tag and LRU state are managed
// with Akita cache components.
package codecache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/a32jit/state"
)

// Entry is one translated block: the guest address range it was compiled
// from and the host routine standing in for the generated code.
type Entry struct {
	// GuestAddr is the guest address of the first translated instruction.
	GuestAddr uint32
	// GuestLen is the number of guest bytes the block was compiled from.
	GuestLen uint32
	// Fn executes the block against the given register file.
	Fn func(*state.RegFile)
}

// Statistics holds code cache counters.
type Statistics struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Inserts   uint64
	Evictions uint64
	Clears    uint64
}

// Cache is a set-associative translated-block store. It is owned by the
// execution thread; the control layer only ever asks it to discard
// everything (ClearCache).
type Cache struct {
	config Config

	// Akita cache directory for tag/LRU management. Guest addresses are
	// block-aligned before lookup; the tag holds the aligned address.
	directory *akitacache.DirectoryImpl

	// entries holds the translated block per slot, indexed by
	// (setID * associativity + wayID).
	entries []Entry

	stats Statistics
}

// New creates a code cache with the given geometry.
func New(config Config) *Cache {
	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("codecache: %v", err))
	}

	numSets := config.NumBlocks / config.Associativity

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSpan,
			akitacache.NewLRUVictimFinder(),
		),
		entries: make([]Entry, config.NumBlocks),
	}
}

// Config returns the cache geometry.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns the cache counters.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears the cache counters.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// slotIndex computes the index into entries for a directory block.
func (c *Cache) slotIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// alignAddr maps a guest address to its block-aligned form, which is what
// the directory tags hold.
func (c *Cache) alignAddr(addr uint32) uint64 {
	span := uint64(c.config.BlockSpan)
	return uint64(addr) / span * span
}

// Lookup returns the translated block covering addr, if one is cached.
// A hit refreshes the block's LRU position.
func (c *Cache) Lookup(addr uint32) (Entry, bool) {
	c.stats.Lookups++

	block := c.directory.Lookup(0, c.alignAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return c.entries[c.slotIndex(block)], true
	}

	c.stats.Misses++
	return Entry{}, false
}

// Insert stores a translated block, replacing any block already cached
// for the same aligned guest address and evicting the LRU way of a full
// set.
func (c *Cache) Insert(entry Entry) {
	blockAddr := c.alignAddr(entry.GuestAddr)

	block := c.directory.Lookup(0, blockAddr)
	if block == nil || !block.IsValid {
		block = c.directory.FindVictim(blockAddr)
		if block == nil {
			// Cannot happen with a validated geometry.
			return
		}
		if block.IsValid {
			c.stats.Evictions++
		}
		block.Tag = blockAddr
		block.IsValid = true
		block.IsDirty = false
	}

	c.entries[c.slotIndex(block)] = entry
	c.directory.Visit(block)
	c.stats.Inserts++
}

// ClearCache discards every translated block. This is the one operation
// the execution-control layer consumes.
func (c *Cache) ClearCache() {
	c.directory.Reset()
	for i := range c.entries {
		c.entries[i] = Entry{}
	}
	c.stats.Clears++
}
