//go:build windows

package shade

import "golang.org/x/sys/windows"

// osPageSize reports the operating system's memory page size, in bytes,
// via GetSystemInfo's dwPageSize field. Grounded on the teacher's
// system_windows.go, which reaches into golang.org/x/sys/windows for
// platform information unavailable from the standard library.
func osPageSize() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	if info.PageSize == 0 {
		return defaultPageSize
	}
	return int(info.PageSize)
}
