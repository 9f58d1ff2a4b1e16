package tardis

// FilesystemManager abstracts the filesystem access the engine needs
// outside the backup store.
type FilesystemManager interface {
	// Resolve makes rawPath absolute, evaluates symlinks and stats it.
	// The path must exist.
	Resolve(rawPath string) (*Path, error)

	// ReadFile returns the full content of the file at path.
	ReadFile(path string) ([]byte, error)

	// CopyFile overwrites dst in place with the content of src and returns
	// the number of bytes written. The parent directory of dst must exist.
	// Failures are reported as *IOError.
	CopyFile(src, dst string) (int64, error)

	// IsIgnored reports whether relativePath, relative to root, matches an
	// ignore pattern.
	IsIgnored(relativePath string, root string) (bool, error)
}
