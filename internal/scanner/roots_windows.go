//go:build windows

package scanner

import (
	"path/filepath"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

func platformRoots(home string) []string {
	roots := []string{
		`C:\Program Files`,
		`C:\Program Files (x86)`,
	}
	if home != "" {
		roots = append(roots, filepath.Join(home, "AppData", "Local"))
	}
	return append(roots, fixedDrives()...)
}

func steamInstalls(home string) []string {
	k, err := registry.OpenKey(
		registry.LOCAL_MACHINE,
		`SOFTWARE\WOW6432Node\Valve\Steam`,
		registry.QUERY_VALUE,
	)
	if err != nil {
		return nil
	}
	defer k.Close()

	path, _, err := k.GetStringValue("InstallPath")
	if err != nil || path == "" {
		return nil
	}
	return []string{path}
}

// fixedDrives lists the roots of local hard drives, e.g. C:\.
func fixedDrives() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil
	}
	var drives []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		root := string(rune('A'+i)) + `:\`
		p, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}
		if windows.GetDriveType(p) == windows.DRIVE_FIXED {
			drives = append(drives, root)
		}
	}
	return drives
}
