package drv

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func components(t *testing.T, path string) []Component {
	t.Helper()
	cmpts, err := Path(path).Components()
	if err != nil {
		t.Fatalf("unable to split %q: %v", path, err)
	}
	return cmpts
}

func TestPathComponents(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []Component
	}{
		{"simple", `A\B\C`, []Component{
			NormalComponent("A"), NormalComponent("B"), NormalComponent("C"),
		}},
		{"root", `\A`, []Component{
			{Kind: Root}, NormalComponent("A"),
		}},
		{"cur", `.\A\.`, []Component{
			{Kind: CurDir}, NormalComponent("A"), {Kind: CurDir},
		}},
		{"parent", `..\A\..`, []Component{
			{Kind: ParentDir}, NormalComponent("A"), {Kind: ParentDir},
		}},
		{"leading separators", `\\\\A`, []Component{
			{Kind: Root}, NormalComponent("A"),
		}},
		{"trailing separators", `A\\\\`, []Component{
			NormalComponent("A"),
		}},
		{"extra separators", `A\\\\B`, []Component{
			NormalComponent("A"), NormalComponent("B"),
		}},
		{"mixed", `\A\\B\.\..\C`, []Component{
			{Kind: Root}, NormalComponent("A"), NormalComponent("B"),
			{Kind: CurDir}, {Kind: ParentDir}, NormalComponent("C"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := components(t, tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("component %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestPathComponentsNeverEmpty(t *testing.T) {
	for _, cmpt := range components(t, `\\A\\\B\\`) {
		if cmpt.Kind == Normal && cmpt.Name == "" {
			t.Fatal("iteration yielded an empty normal component")
		}
	}
}

func TestPathErrors(t *testing.T) {
	if _, err := Path("A\\\xFFB").Components(); !errors.Is(err, ErrPathNotASCII) {
		t.Errorf("expected ErrPathNotASCII, got %v", err)
	}

	long := strings.Repeat("N", MaxNameLen+1)
	if _, err := Path(long).Components(); !errors.Is(err, ErrComponentTooBig) {
		t.Errorf("expected ErrComponentTooBig for long name, got %v", err)
	}

	if _, err := Path("NAME.LONG").Components(); !errors.Is(err, ErrComponentTooBig) {
		t.Errorf("expected ErrComponentTooBig for long extension, got %v", err)
	}
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		component string
		name, ext string
	}{
		{"F.EXT", "F", "EXT"},
		{"NAME", "NAME", ""},
		{"A.B.C", "A.B", "C"},
	}

	for _, tt := range tests {
		name, ext := SplitExt(tt.component)
		if name != tt.name || ext != tt.ext {
			t.Errorf("SplitExt(%q) = %q, %q", tt.component, name, ext)
		}
	}
}
