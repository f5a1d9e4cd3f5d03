package render

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed kernel.wgsl
var kernelWGSL string

// Kernel is the built per-pixel program: the WGSL source and the SPIR-V
// module it compiles to.
type Kernel struct {
	Source string
	SPIRV  []uint32
}

// BuildKernel compiles WGSL source to SPIR-V. The returned error carries
// the compiler diagnostic.
func BuildKernel(src string) (*Kernel, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("kernel build: %w", err)
	}
	if len(spirvBytes) == 0 || len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("kernel build: malformed SPIR-V module of %d bytes", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return &Kernel{Source: src, SPIRV: words}, nil
}

// DefaultKernel builds the escape-time kernel shipped with the package.
func DefaultKernel() (*Kernel, error) {
	return BuildKernel(kernelWGSL)
}

// Release drops the compiled module.
func (k *Kernel) Release() {
	k.SPIRV = nil
}
