package favicon

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"faviconkit/internal/testutil"
)

func TestEncodeICOPacksFramesInOrder(t *testing.T) {
	frames := []icoFrame{
		{side: 16, png: testutil.EncodePNG(t, testutil.Banded(16, 16))},
		{side: 32, png: testutil.EncodePNG(t, testutil.Banded(32, 32))},
		{side: 256, png: testutil.EncodePNG(t, testutil.Banded(256, 256))},
	}
	data, err := encodeICO(frames)
	if err != nil {
		t.Fatalf("encodeICO() error = %v", err)
	}
	le := binary.LittleEndian
	if reserved, kind, count := le.Uint16(data[0:]), le.Uint16(data[2:]), le.Uint16(data[4:]); reserved != 0 || kind != 1 || count != 3 {
		t.Fatalf("header = %d/%d/%d, want 0/1/3", reserved, kind, count)
	}

	wantOffset := uint32(iconDirSize + 3*iconDirEntrySize)
	for i, frame := range frames {
		entry := data[iconDirSize+i*iconDirEntrySize:]
		wantDim := byte(frame.side)
		if frame.side == 256 {
			wantDim = 0
		}
		if entry[0] != wantDim || entry[1] != wantDim {
			t.Fatalf("frame %d dims = %d/%d, want %d", i, entry[0], entry[1], wantDim)
		}
		if planes, bpp := le.Uint16(entry[4:]), le.Uint16(entry[6:]); planes != 1 || bpp != 32 {
			t.Fatalf("frame %d planes/bpp = %d/%d", i, planes, bpp)
		}
		size, offset := le.Uint32(entry[8:]), le.Uint32(entry[12:])
		if size != uint32(len(frame.png)) || offset != wantOffset {
			t.Fatalf("frame %d size/offset = %d/%d, want %d/%d", i, size, offset, len(frame.png), wantOffset)
		}
		payload := data[offset : offset+size]
		cfg, err := png.DecodeConfig(bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("frame %d payload is not PNG: %v", i, err)
		}
		if cfg.Width != frame.side {
			t.Fatalf("frame %d width = %d, want %d", i, cfg.Width, frame.side)
		}
		wantOffset += size
	}
	if int(wantOffset) != len(data) {
		t.Fatalf("trailing bytes: end %d, len %d", wantOffset, len(data))
	}
}

func TestEncodeICORejectsBadFrames(t *testing.T) {
	tests := []struct {
		name   string
		frames []icoFrame
	}{
		{name: "no frames"},
		{name: "too large", frames: []icoFrame{{side: 257, png: []byte{1}}}},
		{name: "empty payload", frames: []icoFrame{{side: 16}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := encodeICO(tt.frames); err == nil {
				t.Fatalf("encodeICO() expected error")
			}
		})
	}
}
