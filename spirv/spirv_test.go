package spirv

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	opCapability              = 17
	capabilityShader          = 1
	decorationBuiltIn         = 11
	builtInGlobalInvocationID = 28
)

// literalWords packs s into nul-terminated words.
func literalWords(s string) []uint32 {
	words := make([]uint32, len(s)/4+1)
	for i := 0; i < len(s); i++ {
		words[i/4] |= uint32(s[i]) << (8 * (i % 4))
	}
	return words
}

func inst(op uint32, operands ...uint32) []uint32 {
	return append([]uint32{uint32(len(operands)+1)<<16 | op}, operands...)
}

func module(body ...[]uint32) []uint32 {
	words := []uint32{Magic, 0x00010300, 8, 10, 0}
	for _, b := range body {
		words = append(words, b...)
	}
	return words
}

func TestLiteralWords(t *testing.T) {
	assert.Equal(t, []uint32{0x6E69616D, 0}, literalWords("main"))
	assert.Equal(t, []uint32{0x00006263}, literalWords("cb"))
	assert.Equal(t, "main", literalString(literalWords("main")))
	assert.Equal(t, "entry_fn", literalString(literalWords("entry_fn")))
}

func TestWords(t *testing.T) {
	_, err := Words(nil)
	assert.Error(t, err)

	_, err = Words([]byte{1, 2, 3})
	assert.Error(t, err)

	w, err := Words([]byte{0x03, 0x02, 0x23, 0x07, 1, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []uint32{Magic, 1}, w)

}

func TestParse(t *testing.T) {
	entry := append([]uint32{uint32(GLCompute), 4}, literalWords("main")...)
	words := module(
		inst(opCapability, capabilityShader),
		inst(OpEntryPoint, entry...),
		inst(OpExecutionMode, 4, ExecutionModeLocalSize, 32, 2, 1),
		inst(OpDecorate, 7, DecorationDescriptorSet, 1),
		inst(OpDecorate, 7, DecorationBinding, 3),
		inst(OpDecorate, 8, decorationBuiltIn, builtInGlobalInvocationID),
	)

	m, err := Parse(words)
	require.NoError(t, err)

	assert.Equal(t, "1.3", m.VersionString())
	assert.Equal(t, uint32(10), m.Bound)

	require.Len(t, m.EntryPoints, 1)
	e, ok := m.EntryPoint("main")
	require.True(t, ok)
	assert.Equal(t, GLCompute, e.Model)
	assert.Equal(t, [3]uint32{32, 2, 1}, e.LocalSize)
	assert.Equal(t, uint64(64), e.Invocations())

	_, ok = m.EntryPoint("other")
	assert.False(t, ok)

	require.Len(t, m.Bindings, 1)
	assert.Equal(t, Binding{ID: 7, Set: 1, Binding: 3}, m.Bindings[0])
	assert.True(t, m.HasBinding(1, 3))
	assert.False(t, m.HasBinding(0, 0))
}

func TestParseBigEndian(t *testing.T) {
	entry := append([]uint32{uint32(GLCompute), 1}, literalWords("main")...)
	words := module(inst(OpEntryPoint, entry...))
	for i, w := range words {
		words[i] = w>>24 | (w>>8)&0xff00 | (w<<8)&0xff0000 | w<<24
	}

	m, err := Parse(words)
	require.NoError(t, err)
	_, ok := m.EntryPoint("main")
	assert.True(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
	}{
		{"short", []uint32{Magic, 0}},
		{"magic", []uint32{0xdeadbeef, 0, 0, 0, 0}},
		{"zero count", module([]uint32{opCapability})},
		{"overrun", module([]uint32{4<<16 | OpDecorate, 1})},
		{"short entry point", module(inst(OpEntryPoint, 5, 1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.words)
			assert.Error(t, err)
		})
	}
}

func TestEntryPointWithoutLocalSize(t *testing.T) {
	entry := append([]uint32{uint32(Fragment), 2}, literalWords("frag")...)
	m, err := Parse(module(inst(OpEntryPoint, entry...)))
	require.NoError(t, err)

	e, ok := m.EntryPoint("frag")
	require.True(t, ok)
	assert.Equal(t, "fragment", e.Model.String())
	assert.Zero(t, e.Invocations())
}

func TestParseBundledShader(t *testing.T) {
	code, err := os.ReadFile(filepath.Join("..", "shaders", "shader.spv"))
	require.NoError(t, err)
	assert.Equal(t, Magic, binary.LittleEndian.Uint32(code))

	m, err := ParseBytes(code)
	require.NoError(t, err)

	e, ok := m.EntryPoint("main")
	require.True(t, ok)
	assert.Equal(t, GLCompute, e.Model)
	assert.Equal(t, [3]uint32{64, 1, 1}, e.LocalSize)
	assert.True(t, m.HasBinding(0, 0))
	assert.Len(t, m.Bindings, 1)
}
