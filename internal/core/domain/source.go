package domain

// NamedSource is a named byte source: the narrow capability the text
// extractors need from an upload. It decouples the core from any
// particular I/O framework's file-handle type.
type NamedSource interface {
	// Name returns the declared file name, including extension.
	Name() string

	// Bytes reads the full content. The underlying stream is read
	// at most once.
	Bytes() ([]byte, error)
}

// ByteSource is an in-memory NamedSource.
type ByteSource struct {
	name string
	data []byte
}

// NewByteSource wraps already-loaded bytes as a NamedSource.
func NewByteSource(name string, data []byte) ByteSource {
	return ByteSource{name: name, data: data}
}

// Name returns the declared file name.
func (b ByteSource) Name() string { return b.name }

// Bytes returns the wrapped content.
func (b ByteSource) Bytes() ([]byte, error) { return b.data, nil }
