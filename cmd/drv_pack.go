package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"psxrev/drv"
)

var drvPackCmd = &cobra.Command{
	Use:   "pack DIR OUT",
	Short: "Build a .DRV image from a host directory tree",
	Long: `Build a .DRV image from a host directory tree. Directories are laid out
before files so reads of the resulting image seek monotonically forward.`,
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer out.Close()

		src, err := newHostDirSource(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := drv.WriteTree(out, src); err != nil {
			fmt.Println("Image write error!")
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	drvCmd.AddCommand(drvPackCmd)
}

// hostDirSource lists a host directory as .DRV write entries, directories
// first.
type hostDirSource struct {
	dir     string
	entries []fs.DirEntry
	next    int
}

func newHostDirSource(dir string) (*hostDirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list %q", dir)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].IsDir() && !entries[j].IsDir()
	})
	return &hostDirSource{dir: dir, entries: entries}, nil
}

func (s *hostDirSource) Len() int {
	return len(s.entries)
}

func (s *hostDirSource) Next() (*drv.WriteEntry, error) {
	if s.next >= len(s.entries) {
		return nil, nil
	}
	hostEntry := s.entries[s.next]
	s.next++

	info, err := hostEntry.Info()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to stat %q", hostEntry.Name())
	}
	path := filepath.Join(s.dir, hostEntry.Name())

	if hostEntry.IsDir() {
		child, err := newHostDirSource(path)
		if err != nil {
			return nil, err
		}
		return &drv.WriteEntry{
			Name: strings.ToUpper(hostEntry.Name()),
			Date: info.ModTime(),
			Dir:  child,
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %q", path)
	}

	name, ext := drv.SplitExt(strings.ToUpper(hostEntry.Name()))
	return &drv.WriteEntry{
		Name: name,
		Date: info.ModTime(),
		File: &drv.FileSource{
			Ext:    ext,
			Size:   uint32(info.Size()),
			Reader: f,
		},
	}, nil
}
