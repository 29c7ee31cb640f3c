// Package drv implements the proprietary `.DRV` filesystem embedded in the
// disc's user-data stream.
//
// The filesystem is sector-aligned over 2048-byte sectors. The root
// directory starts at sector 0. A directory is a run of 32-byte entries
// (64 per sector) ended by a terminator entry or by the directory's
// allocated space; each entry points at a file's contiguous byte range or
// at a child directory's sector.
package drv

import (
	"strings"

	"github.com/pkg/errors"
)

// Separator is the path component separator.
const Separator = '\\'

// Maximum component name and extension lengths, as stored on disc.
const (
	MaxNameLen = 16
	MaxExtLen  = 3
)

// Path errors.
var (
	ErrPathNotASCII    = errors.New("path is not ascii")
	ErrComponentTooBig = errors.New("path component name too long")
)

// Path is a backslash-separated ASCII path. Paths are case-sensitive on
// disc.
type Path string

// ComponentKind discriminates path components.
type ComponentKind uint8

// Component kinds.
const (
	// Root is a leading separator.
	Root ComponentKind = iota

	// CurDir is the `.` component.
	CurDir

	// ParentDir is the `..` component.
	ParentDir

	// Normal is a named component.
	Normal
)

// Component is a single step of a path.
type Component struct {
	Kind ComponentKind
	Name string // set for Normal components
}

// NormalComponent builds a Normal component.
func NormalComponent(name string) Component {
	return Component{Kind: Normal, Name: name}
}

// Components splits the path into its components. Consecutive separators
// collapse into one step and trailing separators are ignored, so a Normal
// component never has an empty name.
func (p Path) Components() ([]Component, error) {
	if !isASCII(string(p)) {
		return nil, errors.Wrapf(ErrPathNotASCII, "path %q", string(p))
	}

	var components []Component

	rest := string(p)
	if strings.HasPrefix(rest, string(Separator)) {
		components = append(components, Component{Kind: Root})
	}

	for _, part := range strings.Split(rest, string(Separator)) {
		switch part {
		case "":
			// Leading, consecutive or trailing separator.
		case ".":
			components = append(components, Component{Kind: CurDir})
		case "..":
			components = append(components, Component{Kind: ParentDir})
		default:
			if err := validateComponentName(part); err != nil {
				return nil, err
			}
			components = append(components, NormalComponent(part))
		}
	}

	return components, nil
}

// validateComponentName checks a Normal component against the on-disc
// name and extension limits.
func validateComponentName(part string) error {
	name, ext := SplitExt(part)
	if len(name) > MaxNameLen || len(ext) > MaxExtLen {
		return errors.Wrapf(ErrComponentTooBig, "component %q", part)
	}
	return nil
}

// SplitExt splits a component into its name and extension. A component
// without a dot has an empty extension.
func SplitExt(component string) (name, ext string) {
	if idx := strings.LastIndexByte(component, '.'); idx >= 0 {
		return component[:idx], component[idx+1:]
	}
	return component, ""
}

// Join appends a component name to the path.
func (p Path) Join(name string) Path {
	if p == "" {
		return Path(name)
	}
	return p + Path(Separator) + Path(name)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
