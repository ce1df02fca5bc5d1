package shader

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-scroll/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies a programmable stage within a render shader module.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render shader module.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex stage in the same module.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
// It holds the processed source plus everything needed for render pipeline creation.
type shader struct {
	key                        string
	source                     string
	vertexEntryPoint           string
	fragmentEntryPoint         string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	declarations               []Annotation
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a pre-processed WGSL render shader module holding
// one vertex and one fragment entry point. It exposes the bind group layout descriptors
// derived from the module's @oxy:group annotations.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source after annotation expansion
	Source() string

	// EntryPoint returns the entry point name for the given stage.
	//
	// Parameters:
	//   - shaderType: the stage to look up
	//
	// Returns:
	//   - string: the entry point name, or "" if the stage is absent
	EntryPoint(shaderType ShaderType) string

	// BindGroupLayoutDescriptors retrieves the bind group layout descriptors built from
	// the @oxy:group declarations, keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// GroupIndices returns the declared group indices in ascending order.
	//
	// Returns:
	//   - []int: the sorted group indices
	GroupIndices() []int

	// BindGroupVarName retrieves the variable name for a given group and binding index.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or "" if not declared
	BindGroupVarName(group, binding int) string

	// VertexLayouts returns the vertex buffer layouts the vertex stage consumes.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one interleaved GPUVertex buffer layout
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns the wgpu.ShaderModuleDescriptor built from the processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the group annotations parsed from the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes source and builds a Shader from it.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: raw WGSL source, typically embedded with go:embed
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if pre-processing fails or an entry point is missing
func NewShader(key, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:                key,
		source:             processed,
		vertexEntryPoint:   parseEntryPoint(processed, ShaderTypeVertex),
		fragmentEntryPoint: parseEntryPoint(processed, ShaderTypeFragment),
		declarations:       append([]Annotation(nil), pp.Declarations()...),
	}
	if s.vertexEntryPoint == "" || s.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: missing @vertex or @fragment entry point", key)
	}

	s.bindGroupLayoutDescriptors, s.bindingVarNames = buildBindGroupLayouts(key, s.declarations, pp)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: processed,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(shaderType ShaderType) string {
	switch shaderType {
	case ShaderTypeVertex:
		return s.vertexEntryPoint
	case ShaderTypeFragment:
		return s.fragmentEntryPoint
	}
	return ""
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) GroupIndices() []int {
	groups := make([]int, 0, len(s.bindGroupLayoutDescriptors))
	for g := range s.bindGroupLayoutDescriptors {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	return groups
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{{
		ArrayStride: model.GPUVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}}
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

// buildBindGroupLayouts turns group declarations into uniform buffer layout entries
// visible to both stages, sized from the pre-processor's struct registry.
func buildBindGroupLayouts(key string, decls []Annotation, pp PreProcessor) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)

	for _, d := range decls {
		group, binding := *d.Group, *d.Binding
		entries[group] = append(entries[group], wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: pp.StructSize(d.Args[2]),
			},
		})
		if names[group] == nil {
			names[group] = make(map[int]string)
		}
		names[group][binding] = string(d.Args[1])
	}

	descriptors := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for group, e := range entries {
		sort.Slice(e, func(i, j int) bool { return e[i].Binding < e[j].Binding })
		descriptors[group] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_group_%d", key, group),
			Entries: e,
		}
	}
	return descriptors, names
}
