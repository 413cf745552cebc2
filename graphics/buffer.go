package graphics

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/geometry"
	"vulkan-triangle/unsafer"
)

// VertexBuffer is a host visible buffer holding the triangle vertices.
type VertexBuffer struct {
	device *Device
	buffer vk.Buffer
	memory vk.DeviceMemory
	count  uint32
}

// NewVertexBuffer uploads vertices into a new buffer.
func NewVertexBuffer(device *Device, vertices []geometry.Vertex) (*VertexBuffer, error) {
	if len(vertices) == 0 {
		return nil, errors.New("no vertices to upload")
	}

	bufferSize := vk.DeviceSize(uint32(len(vertices)) * geometry.VertexSize)

	vb := &VertexBuffer{
		device: device,
		count:  uint32(len(vertices)),
	}

	err := vb.create(
		bufferSize,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return nil, errors.Wrap(err, "createVertexBuffer")
	}

	var pData unsafe.Pointer
	res := vk.MapMemory(device.handle, vb.memory, 0, bufferSize, 0, &pData)
	if err := vk.Error(res); err != nil {
		vb.Destroy()
		return nil, errors.Wrap(err, "failed to map vertex buffer memory")
	}

	vk.Memcopy(pData, unsafer.SliceToBytes(vertices))
	vk.UnmapMemory(device.handle, vb.memory)

	return vb, nil
}

// Len returns the number of vertices in the buffer.
func (vb *VertexBuffer) Len() uint32 {
	return vb.count
}

// Destroy frees the buffer and its memory.
func (vb *VertexBuffer) Destroy() {
	if vb.buffer != vk.NullBuffer {
		vk.DestroyBuffer(vb.device.handle, vb.buffer, nil)
		vb.buffer = vk.NullBuffer
	}
	if vb.memory != vk.NullDeviceMemory {
		vk.FreeMemory(vb.device.handle, vb.memory, nil)
		vb.memory = vk.NullDeviceMemory
	}
}

func (vb *VertexBuffer) create(
	size vk.DeviceSize,
	usage vk.BufferUsageFlags,
	properties vk.MemoryPropertyFlags,
) error {
	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	res := vk.CreateBuffer(vb.device.handle, &bufferInfo, nil, &buffer)
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "failed to create buffer")
	}
	vb.buffer = buffer

	var memRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(vb.device.handle, buffer, &memRequirements)
	memRequirements.Deref()

	memTypeIndex, err := vb.device.findMemoryType(memRequirements.MemoryTypeBits, properties)
	if err != nil {
		vb.Destroy()
		return err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: memTypeIndex,
	}

	var memory vk.DeviceMemory
	res = vk.AllocateMemory(vb.device.handle, &allocInfo, nil, &memory)
	if err := vk.Error(res); err != nil {
		vb.Destroy()
		return errors.Wrap(err, "failed to allocate buffer memory")
	}
	vb.memory = memory

	res = vk.BindBufferMemory(vb.device.handle, buffer, memory, 0)
	if err := vk.Error(res); err != nil {
		vb.Destroy()
		return errors.Wrap(err, "failed to bind buffer memory")
	}

	return nil
}
