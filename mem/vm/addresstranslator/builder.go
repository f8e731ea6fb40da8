package addresstranslator

import (
	"log"

	"github.com/sarchlab/pagedmem/mem/vm"
)

// A Builder can create address translators
type Builder struct {
	layout vm.AddressLayout
}

// MakeBuilder creates a new builder
func MakeBuilder() Builder {
	return Builder{
		layout: vm.DefaultAddressLayout,
	}
}

// WithLayout sets how virtual addresses are split into a first-level index,
// a second-level index, and an offset.
func (b Builder) WithLayout(layout vm.AddressLayout) Builder {
	b.layout = layout
	return b
}

// WithOffsetBits sets the width of the page offset.
func (b Builder) WithOffsetBits(n uint64) Builder {
	b.layout.OffsetBits = n
	return b
}

// WithIndexBits sets the width of the first-level and the second-level
// indices.
func (b Builder) WithIndexBits(firstLevel, secondLevel uint64) Builder {
	b.layout.FirstLevelBits = firstLevel
	b.layout.SecondLevelBits = secondLevel

	return b
}

// Build returns a new Translator
func (b Builder) Build() *Translator {
	if err := b.layout.Validate(); err != nil {
		log.Panicf("invalid address layout: %v", err)
	}

	return &Translator{layout: b.layout}
}
