package file

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential hints the kernel that the dump is read front to back.
// Failure only costs read-ahead, so it is ignored.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
