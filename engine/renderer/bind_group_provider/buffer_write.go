package bind_group_provider

// BufferWrite describes one queue write into the buffer at Binding on Provider, starting at Offset bytes.
// Writes to a released provider or to a binding without a buffer are skipped by the renderer.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
