package fsops

import (
	"os"
	"sync"
)

// Op names an FS method for fault injection.
type Op string

const (
	OpStat        Op = "stat"
	OpReadDir     Op = "readdir"
	OpCopy        Op = "copy"
	OpAtomicWrite Op = "atomicwrite"
	OpReadFile    Op = "readfile"
	OpMkdirAll    Op = "mkdirall"
)

type faultKey struct {
	op   Op
	path string
}

// FaultFS wraps an FS and fails selected operations. It is used by tests
// to simulate permission errors and full disks.
type FaultFS struct {
	FS

	mu     sync.Mutex
	faults map[faultKey]error
	calls  map[Op]int
}

// NewFaultFS wraps inner.
func NewFaultFS(inner FS) *FaultFS {
	return &FaultFS{
		FS:     inner,
		faults: make(map[faultKey]error),
		calls:  make(map[Op]int),
	}
}

// FailOn makes op return err for path. An empty path matches every path.
// For Copy and AtomicWrite the destination path is matched.
func (f *FaultFS) FailOn(op Op, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[faultKey{op: op, path: path}] = err
}

// Clear removes all injected faults.
func (f *FaultFS) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = make(map[faultKey]error)
}

// Calls returns how many times op was invoked, including failed calls.
func (f *FaultFS) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultFS) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if err, ok := f.faults[faultKey{op: op, path: path}]; ok {
		return err
	}
	return f.faults[faultKey{op: op}]
}

// Stat fails if a Stat fault matches path.
func (f *FaultFS) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat, path); err != nil {
		return nil, err
	}
	return f.FS.Stat(path)
}

// ReadDir fails if a ReadDir fault matches path.
func (f *FaultFS) ReadDir(path string) ([]os.DirEntry, error) {
	if err := f.check(OpReadDir, path); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(path)
}

// MkdirAll fails if a MkdirAll fault matches path.
func (f *FaultFS) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

// Copy fails if a Copy fault matches dst.
func (f *FaultFS) Copy(src, dst string) error {
	if err := f.check(OpCopy, dst); err != nil {
		return err
	}
	return f.FS.Copy(src, dst)
}

// AtomicWrite fails if an AtomicWrite fault matches path.
func (f *FaultFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpAtomicWrite, path); err != nil {
		return err
	}
	return f.FS.AtomicWrite(path, data, perm)
}

// ReadFile fails if a ReadFile fault matches path.
func (f *FaultFS) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile, path); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(path)
}
