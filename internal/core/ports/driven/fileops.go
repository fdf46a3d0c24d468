package driven

// FileOps performs the side effects of a rename.
type FileOps interface {
	// Exists reports whether path is taken.
	Exists(path string) bool

	// Copy copies src to dst, preserving mode and modification time.
	Copy(src, dst string) error

	// Trash moves path to a recoverable trash location.
	Trash(path string) error
}
