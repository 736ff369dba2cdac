//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package shade

import "golang.org/x/sys/unix"

// osPageSize reports the operating system's memory page size, in bytes.
// Grounded on the teacher's system_unix.go, which queries platform
// specifics through golang.org/x/sys/unix behind a platform build tag.
func osPageSize() int {
	return unix.Getpagesize()
}
