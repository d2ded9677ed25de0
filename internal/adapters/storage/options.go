package storage

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithFileName overrides the backing file name inside the state directory.
func WithFileName(name string) FileOption {
	return func(s *FileStore) {
		if name != "" {
			s.fileName = name
		}
	}
}
