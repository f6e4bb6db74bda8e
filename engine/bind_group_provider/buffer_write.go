package bind_group_provider

// BufferWrite is one pending upload drained by Flush: Data goes to the buffer behind Binding
// of Provider, starting at byte Offset. A renderer turns each into a queue write.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  uint32
	Offset   uint64
	Data     []byte
}
