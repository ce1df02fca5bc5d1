package shader

import (
	"strings"
	"testing"
)

const testSource = `//@oxy:include vertex
//@oxy:include camera
//@oxy:include model_data
//@oxy:group 0 0 uniform camera camera
//@oxy:group 1 0 uniform model model_data

/* block comment with @vertex fn fake() */
@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return camera.view_proj * model.model * vec4<f32>(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    AnnotationType
		wantNil bool
		wantErr bool
	}{
		{name: "plain code", line: "let x = 1;", wantNil: true},
		{name: "plain comment", line: "// hello", wantNil: true},
		{name: "include", line: "//@oxy:include camera", want: annotationTypeInclude},
		{name: "indented group", line: "   //@oxy:group 0 1 uniform lights lights", want: AnnotationTypeBindingGroup},
		{name: "unknown type", line: "//@oxy:bogus camera", wantErr: true},
		{name: "unknown struct", line: "//@oxy:include teapot", wantErr: true},
		{name: "group arity", line: "//@oxy:group 0 0 uniform camera", wantErr: true},
		{name: "bad group index", line: "//@oxy:group x 0 uniform camera camera", wantErr: true},
		{name: "bad address space", line: "//@oxy:group 0 0 storage camera camera", wantErr: true},
		{name: "vertex cannot bind", line: "//@oxy:group 0 0 uniform v vertex", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 3)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAnnotation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if a != nil {
					t.Errorf("parseAnnotation() = %+v, want nil", a)
				}
				return
			}
			if a == nil || a.Type != tt.want {
				t.Fatalf("parseAnnotation() = %+v, want type %v", a, tt.want)
			}
			if a.Line != 3 {
				t.Errorf("Line = %d, want 3", a.Line)
			}
		})
	}
}

func TestPreProcessorProcess(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(testSource)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(out, "struct CameraUniform") {
		t.Error("Process() did not inject CameraUniform")
	}
	if !strings.Contains(out, "struct VertexInput") {
		t.Error("Process() did not inject VertexInput")
	}
	if !strings.Contains(out, "@group(1) @binding(0) var<uniform> model: ModelData;") {
		t.Errorf("Process() missing model binding in:\n%s", out)
	}
	if strings.Contains(out, "@oxy:") {
		t.Error("Process() left annotations in output")
	}
	if got := len(pp.Declarations()); got != 2 {
		t.Errorf("len(Declarations()) = %d, want 2", got)
	}

	// declarations reset between runs
	if _, err := pp.Process("//@oxy:group 0 0 uniform fog fog"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := len(pp.Declarations()); got != 1 {
		t.Errorf("len(Declarations()) after second run = %d, want 1", got)
	}
}

func TestNewShader(t *testing.T) {
	s, err := NewShader("test", testSource)
	if err != nil {
		t.Fatalf("NewShader() error = %v", err)
	}
	if got := s.EntryPoint(ShaderTypeVertex); got != "vs_main" {
		t.Errorf("EntryPoint(vertex) = %q, want vs_main", got)
	}
	if got := s.EntryPoint(ShaderTypeFragment); got != "fs_main" {
		t.Errorf("EntryPoint(fragment) = %q, want fs_main", got)
	}
	if got := s.GroupIndices(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("GroupIndices() = %v, want [0 1]", got)
	}
	if got := s.BindGroupVarName(1, 0); got != "model" {
		t.Errorf("BindGroupVarName(1, 0) = %q, want model", got)
	}
	if got := s.BindGroupVarName(4, 0); got != "" {
		t.Errorf("BindGroupVarName(4, 0) = %q, want empty", got)
	}

	desc := s.BindGroupLayoutDescriptors()[0]
	if len(desc.Entries) != 1 {
		t.Fatalf("group 0 entries = %d, want 1", len(desc.Entries))
	}
	if got := desc.Entries[0].Buffer.MinBindingSize; got != 80 {
		t.Errorf("camera MinBindingSize = %d, want 80", got)
	}
	if got := s.VertexLayouts()[0].ArrayStride; got != 24 {
		t.Errorf("vertex ArrayStride = %d, want 24", got)
	}
	if s.Module() == nil || s.Module().WGSLDescriptor.Code != s.Source() {
		t.Error("Module() does not carry the processed source")
	}
}

func TestNewShaderErrors(t *testing.T) {
	if _, err := NewShader("bad", "//@oxy:include teapot\n"); err == nil {
		t.Error("NewShader() with unknown include: want error")
	}
	if _, err := NewShader("novs", "@fragment fn fs() {}"); err == nil {
		t.Error("NewShader() without vertex stage: want error")
	}
}
