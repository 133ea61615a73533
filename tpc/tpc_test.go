package tpc

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func makeHeader(dataSize uint32, width, height uint16, encoding, mipMapCount byte) []byte {
	h := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(h[0:4], dataSize)
	binary.LittleEndian.PutUint16(h[8:10], width)
	binary.LittleEndian.PutUint16(h[10:12], height)
	h[12] = encoding
	h[13] = mipMapCount
	return h
}

func TestDecodeRawRGBSingleMip(t *testing.T) {
	const w, h = 4, 4
	header := makeHeader(0, w, h, encodingRGB, 1)
	payload := bytes.Repeat([]byte{1, 2, 3}, w*h)

	buf := append(append([]byte(nil), header...), payload...)

	img, err := Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	if img.Format != PixelFormatR8G8B8 {
		t.Fatalf("Format = %v, want R8G8B8", img.Format)
	}
	if img.LayerCount != 1 || img.IsCubeMap {
		t.Fatalf("unexpected cube-map state: %+v", img)
	}
	if len(img.MipMaps) != 1 {
		t.Fatalf("MipMaps = %d, want 1", len(img.MipMaps))
	}
	if img.MipMaps[0].Width != w || img.MipMaps[0].Height != h {
		t.Fatalf("mip dims = %dx%d, want %dx%d", img.MipMaps[0].Width, img.MipMaps[0].Height, w, h)
	}
}

func TestDecodeGrayscaleExpandsToRGB(t *testing.T) {
	const w, h = 2, 2
	header := makeHeader(0, w, h, encodingGray, 1)
	payload := []byte{10, 20, 30, 40}
	// The post-expansion budget check measures against the RGB24 size
	// (w*h*3 = 12 bytes), even though the on-disk grayscale payload is
	// only w*h = 4 bytes; pad with trailing bytes (read back as TXI) to
	// satisfy it, mirroring the original decoder's literal behavior.
	padding := make([]byte, 8)

	buf := append(append(append([]byte(nil), header...), payload...), padding...)

	img, err := Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	mip := img.MipMaps[0]
	if len(mip.Data) != w*h*3 {
		t.Fatalf("len(Data) = %d, want %d", len(mip.Data), w*h*3)
	}
	if mip.Data[0] != 10 || mip.Data[1] != 10 || mip.Data[2] != 10 {
		t.Fatalf("first pixel not expanded: %v", mip.Data[:3])
	}
}

func TestDecodeRejectsOversizedDimensions(t *testing.T) {
	header := makeHeader(0, 0x8000, 4, encodingRGB, 1)
	if _, err := Decode(bytes.NewReader(header)); err != ErrDimensions {
		t.Fatalf("err = %v, want ErrDimensions", err)
	}
}

func TestDecodeDXT1CubeMap(t *testing.T) {
	const w, h = 4, 24 // height == 6*width -> cube map, face size 4x4
	const faceH = h / 6
	faceSize := (w * faceH) / 2 // DXT1: w*faceH/2 bytes per face, matching the per-face dataSize field

	header := makeHeader(uint32(faceSize), w, h, encodingRGB, 1)

	var payload []byte
	for face := 0; face < 6; face++ {
		payload = append(payload, bytes.Repeat([]byte{byte(face)}, faceSize)...)
	}

	buf := append(append([]byte(nil), header...), payload...)

	img, err := Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	if !img.IsCubeMap || img.LayerCount != 6 {
		t.Fatalf("expected 6-layer cube map, got LayerCount=%d IsCubeMap=%v", img.LayerCount, img.IsCubeMap)
	}
	if img.Format != PixelFormatDXT1 {
		t.Fatalf("Format = %v, want DXT1", img.Format)
	}
	if len(img.MipMaps) != 6 {
		t.Fatalf("MipMaps = %d, want 6", len(img.MipMaps))
	}
	// Faces 0 and 1 are swapped by fixupCubeMap.
	if img.MipMaps[0].Data[0] != 1 || img.MipMaps[1].Data[0] != 0 {
		t.Fatalf("face swap didn't happen: mip0[0]=%d mip1[0]=%d", img.MipMaps[0].Data[0], img.MipMaps[1].Data[0])
	}
}

func TestGetTXIReturnsTrailingBytes(t *testing.T) {
	const w, h = 2, 2
	header := makeHeader(0, w, h, encodingRGB, 1)
	payload := bytes.Repeat([]byte{5}, w*h*3)
	txi := []byte("some txi text")

	buf := append(append(append([]byte(nil), header...), payload...), txi...)

	img, err := Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	data, ok := img.GetTXI()
	if !ok {
		t.Fatal("GetTXI() ok = false, want true")
	}
	if string(data) != string(txi) {
		t.Fatalf("GetTXI() = %q, want %q", data, txi)
	}
}

func TestGetTXIAbsentWhenNoTrailingBytes(t *testing.T) {
	const w, h = 2, 2
	header := makeHeader(0, w, h, encodingRGB, 1)
	payload := bytes.Repeat([]byte{5}, w*h*3)

	buf := append(append([]byte(nil), header...), payload...)

	img, err := Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := img.GetTXI(); ok {
		t.Fatal("GetTXI() ok = true, want false")
	}
}

func TestDeSwizzleOffsetIsIdentityForOnePixel(t *testing.T) {
	if got := deSwizzleOffset(0, 0, 4, 4); got != 0 {
		t.Fatalf("deSwizzleOffset(0,0,4,4) = %d, want 0", got)
	}
}
