// Package spirv reads the parts of a SPIR-V module a compute dispatcher needs:
// the entry points, their local workgroup size, and the descriptor set and
// binding decorations.
package spirv

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

const (
	Magic         uint32 = 0x07230203
	magicReversed uint32 = 0x03022307
	headerWords          = 5
)

// Opcodes and operands read by Parse.
const (
	OpEntryPoint    = 15
	OpExecutionMode = 16
	OpDecorate      = 71

	DecorationBinding       = 33
	DecorationDescriptorSet = 34

	ExecutionModeLocalSize = 17
)

// ExecutionModel is the shader stage an entry point is declared for.
type ExecutionModel uint32

const (
	Vertex    ExecutionModel = 0
	Fragment  ExecutionModel = 4
	GLCompute ExecutionModel = 5
)

func (e ExecutionModel) String() string {
	switch e {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	case GLCompute:
		return "compute"
	}
	return "other"
}

type EntryPoint struct {
	Name      string
	Model     ExecutionModel
	ID        uint32
	LocalSize [3]uint32
}

// Invocations is the number of invocations in one workgroup, or 0 when the
// module does not declare a local size.
func (e EntryPoint) Invocations() uint64 {
	return uint64(e.LocalSize[0]) * uint64(e.LocalSize[1]) * uint64(e.LocalSize[2])
}

type Binding struct {
	ID      uint32
	Set     uint32
	Binding uint32
}

type Module struct {
	Version     uint32
	Generator   uint32
	Bound       uint32
	EntryPoints []EntryPoint
	Bindings    []Binding
}

// VersionString renders the header version as major.minor.
func (m *Module) VersionString() string {
	return fmt.Sprintf("%d.%d", (m.Version>>16)&0xff, (m.Version>>8)&0xff)
}

func (m *Module) EntryPoint(name string) (EntryPoint, bool) {
	for _, e := range m.EntryPoints {
		if e.Name == name {
			return e, true
		}
	}
	return EntryPoint{}, false
}

// HasBinding reports whether a variable is decorated with the given set and
// binding.
func (m *Module) HasBinding(set, binding uint32) bool {
	for _, b := range m.Bindings {
		if b.Set == set && b.Binding == binding {
			return true
		}
	}
	return false
}

// Words converts little-endian SPIR-V bytes to words.
func Words(code []byte) ([]uint32, error) {
	if len(code) == 0 {
		return nil, errors.New("spirv: empty module")
	}
	if len(code)%4 != 0 {
		return nil, errors.Errorf("spirv: length %d is not a multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words, nil
}

func ParseBytes(code []byte) (*Module, error) {
	words, err := Words(code)
	if err != nil {
		return nil, err
	}
	return Parse(words)
}

// Parse walks the instruction stream once. Big-endian modules are accepted.
func Parse(words []uint32) (*Module, error) {
	if len(words) < headerWords {
		return nil, errors.Errorf("spirv: %d words is shorter than the header", len(words))
	}

	switch words[0] {
	case Magic:
	case magicReversed:
		swapped := make([]uint32, len(words))
		for i, w := range words {
			swapped[i] = w>>24 | (w>>8)&0xff00 | (w<<8)&0xff0000 | w<<24
		}
		words = swapped
	default:
		return nil, errors.Errorf("spirv: bad magic %#08x", words[0])
	}

	m := &Module{
		Version:   words[1],
		Generator: words[2],
		Bound:     words[3],
	}

	sets := map[uint32]uint32{}
	bindings := map[uint32]uint32{}
	var order []uint32
	seen := map[uint32]bool{}
	note := func(id uint32) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	for pc := headerWords; pc < len(words); {
		count := int(words[pc] >> 16)
		op := words[pc] & 0xffff
		if count == 0 {
			return nil, errors.Errorf("spirv: zero word count at word %d", pc)
		}
		if pc+count > len(words) {
			return nil, errors.Errorf("spirv: instruction %d at word %d overruns module", op, pc)
		}
		inst := words[pc : pc+count]

		switch op {
		case OpEntryPoint:
			if count < 4 {
				return nil, errors.Errorf("spirv: short OpEntryPoint at word %d", pc)
			}
			m.EntryPoints = append(m.EntryPoints, EntryPoint{
				Model: ExecutionModel(inst[1]),
				ID:    inst[2],
				Name:  literalString(inst[3:]),
			})
		case OpExecutionMode:
			if count >= 6 && inst[2] == ExecutionModeLocalSize {
				for i := range m.EntryPoints {
					if m.EntryPoints[i].ID == inst[1] {
						m.EntryPoints[i].LocalSize = [3]uint32{inst[3], inst[4], inst[5]}
					}
				}
			}
		case OpDecorate:
			if count >= 4 {
				switch inst[2] {
				case DecorationDescriptorSet:
					sets[inst[1]] = inst[3]
					note(inst[1])
				case DecorationBinding:
					bindings[inst[1]] = inst[3]
					note(inst[1])
				}
			}
		}

		pc += count
	}

	for _, id := range order {
		m.Bindings = append(m.Bindings, Binding{ID: id, Set: sets[id], Binding: bindings[id]})
	}

	return m, nil
}

// literalString decodes a nul-terminated UTF-8 literal packed into words.
func literalString(words []uint32) string {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		for i := 0; i < 4; i++ {
			c := byte(w >> (8 * i))
			if c == 0 {
				return string(b)
			}
			b = append(b, c)
		}
	}
	return string(b)
}
