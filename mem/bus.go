package mem

import "fmt"

// A Bus is the central object that connects multiple 'hardware' components
// together, enabling communication between them. Each Bus has an independent
// memory layout that begins at 0x0000.
//
// Components own contiguous regions of the address space. A component is
// attached with Mount, which registers a pair of device functions for an
// inclusive [start, end] range. The Bus routes every absolute address to the
// owning mount, translating it to a region-relative offset first, so devices
// never need to know where they sit in the map.
//
// In the NES, one Bus carries 64 kB for CPU, RAM, audio and cartridge
// (0x0000-0xffff); the PPU hangs off a second, smaller Bus.
type Bus struct {
	mounts []mount
}

// A mount is one contiguous region and its backing device. The device
// functions receive offsets relative to start, never absolute addresses.
type mount struct {
	start uint16
	end   uint16
	read  func(offset uint16) byte
	write func(offset uint16, data byte)
}

// Mount attaches a device to the inclusive range [start, end]. The range must
// not intersect any existing mount.
func (b *Bus) Mount(start uint16, end uint16, read func(uint16) byte, write func(uint16, byte)) error {
	if end < start {
		return fmt.Errorf("invalid region: %#04x > %#04x", start, end)
	}
	for _, m := range b.mounts {
		if start <= m.end && m.start <= end {
			return fmt.Errorf("region [%#04x, %#04x] overlaps existing mount [%#04x, %#04x]",
				start, end, m.start, m.end)
		}
	}
	b.mounts = append(b.mounts, mount{start: start, end: end, read: read, write: write})
	return nil
}

func (b *Bus) find(addr uint16) (mount, error) {
	for _, m := range b.mounts {
		if m.start <= addr && addr <= m.end {
			return m, nil
		}
	}
	return mount{}, fmt.Errorf("no mount covers address %#04x", addr)
}

// Read routes addr to the owning mount and reads one byte from its device.
func (b *Bus) Read(addr uint16) (byte, error) {
	m, err := b.find(addr)
	if err != nil {
		return 0, err
	}
	return m.read(addr - m.start), nil
}

// Write routes addr to the owning mount and passes data to its device, which
// actually performs the write.
func (b *Bus) Write(addr uint16, data byte) error {
	m, err := b.find(addr)
	if err != nil {
		return err
	}
	m.write(addr-m.start, data)
	return nil
}

// Ram returns a read/write pair backed by size bytes of zeroed memory,
// suitable for passing straight to Mount. The backing store is captured by
// the closures; nothing else can reach it.
func Ram(size int) (func(uint16) byte, func(uint16, byte)) {
	buf := make([]byte, size)
	read := func(offset uint16) byte { return buf[offset] }
	write := func(offset uint16, data byte) { buf[offset] = data }
	return read, write
}
