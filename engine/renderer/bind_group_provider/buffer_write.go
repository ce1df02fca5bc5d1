package bind_group_provider

// BufferWrite is one queued uniform upload: Data lands Offset bytes into the buffer bound at
// Binding on Provider. Writes whose binding has no buffer are skipped by the backend.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
