// Package tpc decodes BioWare's TPC texture container: a fixed 128-byte
// header, a layer-major sequence of mip-map payloads (raw or S3TC
// compressed, optionally pixel-swizzled), and an optional trailing TXI
// metadata blob.
package tpc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
)

// PixelFormat identifies how a mip-map's bytes are laid out.
type PixelFormat int

const (
	PixelFormatR8G8B8 PixelFormat = iota
	PixelFormatR8G8B8A8
	PixelFormatB8G8R8A8
	PixelFormatDXT1
	PixelFormatDXT5
)

const (
	encodingGray         byte = 0x01
	encodingRGB          byte = 0x02
	encodingRGBA         byte = 0x04
	encodingSwizzledBGRA byte = 0x0C
)

const headerSize = 128

// Errors returned by Decode. All are construction-fatal.
var (
	ErrDimensions  = errors.New("tpc: unsupported image dimensions")
	ErrEncoding    = errors.New("tpc: unknown encoding")
	ErrDataSize    = errors.New("tpc: invalid data size for format/dimensions")
	ErrShortRead   = errors.New("tpc: file truncated before all mips were read")
	ErrMipMismatch = errors.New("tpc: layers disagree on mip chain length")
	ErrCubeMismatch = errors.New("tpc: cube map faces disagree on dimensions")
)

// MipMap is one decoded mip level of one layer (cube face).
type MipMap struct {
	Width, Height int
	Data          []byte
}

// Image is a decoded TPC texture: a pixel format, one layer (or six, for a
// cube map), and a layer-major sequence of mip-maps (all mips of layer 0,
// then layer 1, and so on).
type Image struct {
	Format     PixelFormat
	LayerCount int
	IsCubeMap  bool

	MipMaps []*MipMap

	txi []byte
}

// MipMapCount returns the number of mip levels per layer.
func (img *Image) MipMapCount() int {
	if img.LayerCount == 0 {
		return 0
	}
	return len(img.MipMaps) / img.LayerCount
}

// Mip returns the mip-map at the given layer and mip index.
func (img *Image) Mip(layer, mip int) *MipMap {
	return img.MipMaps[layer*img.MipMapCount()+mip]
}

// GetTXI returns the embedded TXI metadata blob trailing the mip data, if
// the file carried one.
func (img *Image) GetTXI() (data []byte, ok bool) {
	if len(img.txi) == 0 {
		return nil, false
	}
	return img.txi, true
}

// Decode reads a complete TPC texture from r: the header, every mip-map
// payload, and any trailing TXI blob. The whole stream is read into memory
// up front, since the mip budget check needs the total file size.
func Decode(r io.Reader) (*Image, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tpc: reading input: %w", err)
	}
	if len(raw) < headerSize {
		return nil, ErrShortRead
	}

	d := &decoder{data: raw}
	return d.load()
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) u32() uint32 {
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v
}

func (d *decoder) u16() uint16 {
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v
}

func (d *decoder) u8() byte {
	v := d.data[d.pos]
	d.pos++
	return v
}

func (d *decoder) skip(n int) { d.pos += n }

func (d *decoder) load() (*Image, error) {
	dataSize := d.u32()
	d.skip(4) // reserved float
	width := int(d.u16())
	height := int(d.u16())
	if width >= 0x8000 || height >= 0x8000 {
		return nil, ErrDimensions
	}
	encoding := d.u8()
	mipMapCount := int(d.u8())
	d.skip(114)

	img := &Image{LayerCount: 1}

	var minPayload, size int
	compressed := dataSize != 0

	if !compressed {
		switch encoding {
		case encodingGray:
			img.Format = PixelFormatR8G8B8
			minPayload = 1
			size = width * height
		case encodingRGB:
			img.Format = PixelFormatR8G8B8
			minPayload = 3
			size = width * height * 3
		case encodingRGBA:
			img.Format = PixelFormatR8G8B8A8
			minPayload = 4
			size = width * height * 4
		case encodingSwizzledBGRA:
			img.Format = PixelFormatB8G8R8A8
			minPayload = 4
			size = width * height * 4
		default:
			return nil, fmt.Errorf("%w: raw encoding %d", ErrEncoding, encoding)
		}
	} else {
		switch encoding {
		case encodingRGB:
			img.Format = PixelFormatDXT1
			minPayload = 8
			checkCubeMap(img, &width, &height)
			size = int(dataSize)
			if size != (width*height)/2 {
				return nil, ErrDataSize
			}
		case encodingRGBA:
			img.Format = PixelFormatDXT5
			minPayload = 16
			checkCubeMap(img, &width, &height)
			size = int(dataSize)
			if size != width*height {
				return nil, ErrDataSize
			}
		default:
			return nil, fmt.Errorf("%w: compressed encoding %d", ErrEncoding, encoding)
		}
	}

	fullDataSize := len(d.data) - headerSize
	if fullDataSize < img.LayerCount*getDataSize(img.Format, width, height) {
		return nil, fmt.Errorf("%w: image wouldn't fit into data", ErrShortRead)
	}

	layerCount, err := d.readMips(img, width, height, size, minPayload, mipMapCount, encoding, fullDataSize)
	if err != nil {
		return nil, err
	}
	if layerCount != img.LayerCount || len(img.MipMaps)%img.LayerCount != 0 {
		return nil, ErrMipMismatch
	}

	if d.pos < len(d.data) {
		img.txi = append([]byte(nil), d.data[d.pos:]...)
	}

	if err := fixupCubeMap(img); err != nil {
		return nil, err
	}

	return img, nil
}

// checkCubeMap tests whether height/width, in integer division, is 6 (six
// square cube faces stacked vertically); if so it divides height by six to
// get one face and flips the image to a six-layer cube map.
func checkCubeMap(img *Image, width, height *int) bool {
	if *height == 0 || *width == 0 || (*height / *width) != 6 {
		return false
	}
	*height /= 6
	img.LayerCount = 6
	img.IsCubeMap = true
	return true
}

// readMips enumerates and reads every layer's mip chain, stopping a layer
// early once the remaining payload budget can't fit another mip. It
// returns the number of layers visited; a layer cut short by the budget
// still counts.
func (d *decoder) readMips(img *Image, width, height, dataSize, minPayload, mipMapCount int, encoding byte, fullDataSize int) (int, error) {
	layerCount := 0
	for ; layerCount < img.LayerCount; layerCount++ {
		layerWidth, layerHeight, layerSize := width, height, dataSize

		for i := 0; i < mipMapCount; i++ {
			w := max1(layerWidth)
			h := max1(layerHeight)
			size := layerSize
			if size < minPayload {
				size = minPayload
			}

			mipMin := getDataSize(img.Format, w, h)
			if encoding == encodingGray {
				// Grayscale is stored at one byte per pixel and only
				// expanded to R8G8B8 once read.
				mipMin = w * h
			}
			if fullDataSize < size || size < mipMin {
				break
			}

			payload, err := d.readPayload(size, w, h, encoding)
			if err != nil {
				return layerCount, err
			}
			img.MipMaps = append(img.MipMaps, &MipMap{Width: w, Height: h, Data: payload})

			fullDataSize -= size

			layerWidth >>= 1
			layerHeight >>= 1
			layerSize >>= 2

			if layerWidth < 1 && layerHeight < 1 {
				break
			}
		}
	}
	return layerCount, nil
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// readPayload reads one mip's raw bytes, de-swizzling or expanding
// grayscale as the encoding demands.
func (d *decoder) readPayload(size, w, h int, encoding byte) ([]byte, error) {
	if d.pos+size > len(d.data) {
		return nil, ErrShortRead
	}
	raw := d.data[d.pos : d.pos+size]
	d.pos += size

	widthPOT := w&(w-1) == 0
	swizzled := encoding == encodingSwizzledBGRA && widthPOT

	switch {
	case swizzled:
		out := make([]byte, size)
		deSwizzle(out, raw, w, h)
		return out, nil

	case encoding == encodingGray:
		out := make([]byte, w*h*3)
		for i := 0; i < w*h; i++ {
			v := raw[i]
			out[i*3+0] = v
			out[i*3+1] = v
			out[i*3+2] = v
		}
		return out, nil

	default:
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}
}

// fixupCubeMap validates that every face agrees on dimensions at each mip
// level, rotates each face into its correct orientation, and swaps faces 0
// and 1 — all per the original engine's cube-map convention.
func fixupCubeMap(img *Image) error {
	if !img.IsCubeMap {
		return nil
	}

	mipCount := img.MipMapCount()

	for j := 0; j < mipCount; j++ {
		base := img.MipMaps[j]
		for i := 1; i < img.LayerCount; i++ {
			m := img.MipMaps[i*mipCount+j]
			if m.Width != base.Width || m.Height != base.Height || len(m.Data) != len(base.Data) {
				return ErrCubeMismatch
			}
		}
	}

	rotation := [6]int{3, 1, 0, 2, 2, 0}
	bpp := bppOf(img.Format)

	// Block-compressed faces keep their raw block bytes (no DXT
	// decompression is implemented), so only uncompressed faces can be
	// rotated byte-wise without corrupting the data.
	if bpp > 0 {
		for i := 0; i < img.LayerCount; i++ {
			for j := 0; j < mipCount; j++ {
				m := img.MipMaps[i*mipCount+j]
				if m.Width == m.Height {
					rotate90(m.Data, m.Width, bpp, rotation[i])
				}
			}
		}
	}

	for j := 0; j < mipCount; j++ {
		idx0, idx1 := 0*mipCount+j, 1*mipCount+j
		img.MipMaps[idx0], img.MipMaps[idx1] = img.MipMaps[idx1], img.MipMaps[idx0]
	}

	return nil
}
