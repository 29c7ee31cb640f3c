package drv

import (
	"io"

	"github.com/pkg/errors"
)

// ErrSwapNotFiles reports a swap where one of the paths is a directory.
var ErrSwapNotFiles = errors.New("both paths must be files")

// SwapFiles exchanges the file pointers of two entries, rewriting both
// records in place. The file data itself is not moved.
func SwapFiles(rws io.ReadWriteSeeker, lhs, rhs Path) error {
	lhsPtr, lhsEntry, err := RootDir().Find(rws, lhs)
	if err != nil {
		return errors.Wrapf(err, "unable to find %q", string(lhs))
	}
	rhsPtr, rhsEntry, err := RootDir().Find(rws, rhs)
	if err != nil {
		return errors.Wrapf(err, "unable to find %q", string(rhs))
	}

	if lhsEntry.Kind != KindFile || rhsEntry.Kind != KindFile {
		return ErrSwapNotFiles
	}

	lhsEntry.File, rhsEntry.File = rhsEntry.File, lhsEntry.File

	if err := lhsPtr.Write(rws, lhsEntry); err != nil {
		return errors.Wrapf(err, "unable to rewrite %q", string(lhs))
	}
	if err := rhsPtr.Write(rws, rhsEntry); err != nil {
		return errors.Wrapf(err, "unable to rewrite %q", string(rhs))
	}
	return nil
}
