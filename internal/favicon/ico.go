package favicon

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	iconDirSize      = 6
	iconDirEntrySize = 16
	maxIconSide      = 256
)

type icoFrame struct {
	side int
	png  []byte
}

// encodeICO packs PNG frames into an ICO container. Frames keep their order.
func encodeICO(frames []icoFrame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("ico: no frames")
	}
	var buf bytes.Buffer
	header := [3]uint16{0, 1, uint16(len(frames))} // reserved, type icon, count
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}

	offset := uint32(iconDirSize + iconDirEntrySize*len(frames))
	for _, frame := range frames {
		if frame.side <= 0 || frame.side > maxIconSide {
			return nil, fmt.Errorf("ico: frame side must be 1..%d, got %d", maxIconSide, frame.side)
		}
		if len(frame.png) == 0 {
			return nil, fmt.Errorf("ico: empty %dx%d frame", frame.side, frame.side)
		}
		dim := iconDimByte(frame.side)
		buf.Write([]byte{dim, dim, 0, 0})
		entry := struct {
			Planes uint16
			BPP    uint16
			Size   uint32
			Offset uint32
		}{1, 32, uint32(len(frame.png)), offset}
		if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
			return nil, err
		}
		offset += uint32(len(frame.png))
	}
	for _, frame := range frames {
		buf.Write(frame.png)
	}
	return buf.Bytes(), nil
}

// 256 is stored as 0.
func iconDimByte(v int) byte {
	if v >= maxIconSide {
		return 0
	}
	return byte(v)
}
