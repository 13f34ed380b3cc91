package vulqueno

// BufferObject is anything that can be copied into a buffer.
type BufferObject interface {
	Bytes() []byte
}

// IDestructable releases the Vulkan objects it owns.
type IDestructable interface {
	Destroy()
}
