package tpc

// bppOf returns the bytes-per-pixel of an uncompressed pixel format, or 0
// for a block-compressed one.
func bppOf(format PixelFormat) int {
	switch format {
	case PixelFormatR8G8B8:
		return 3
	case PixelFormatR8G8B8A8, PixelFormatB8G8R8A8:
		return 4
	default:
		return 0
	}
}

// getDataSize returns the number of bytes needed to hold an image of these
// dimensions in this format, including the block-compressed formats' own
// minimum block size.
func getDataSize(format PixelFormat, w, h int) int {
	switch format {
	case PixelFormatR8G8B8:
		return w * h * 3
	case PixelFormatR8G8B8A8, PixelFormatB8G8R8A8:
		return w * h * 4
	case PixelFormatDXT1:
		v := ((w + 3) / 4) * ((h + 3) / 4) * 8
		if v < 8 {
			v = 8
		}
		return v
	case PixelFormatDXT5:
		v := ((w + 3) / 4) * ((h + 3) / 4) * 16
		if v < 16 {
			v = 16
		}
		return v
	default:
		return 0
	}
}

// deSwizzle reverses the Xbox/console-style tiled pixel layout: each output
// pixel's offset in src is derived by interleaving the low bits of its x
// and y coordinates.
func deSwizzle(dst, src []byte, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := deSwizzleOffset(x, y, width, height) * 4
			i := (y*width + x) * 4
			copy(dst[i:i+4], src[offset:offset+4])
		}
	}
}

func deSwizzleOffset(x, y, width, height int) int {
	wBits := intLog2(width)
	hBits := intLog2(height)

	offset := 0
	shift := uint(0)
	for wBits > 0 || hBits > 0 {
		if wBits > 0 {
			offset |= (x & 1) << shift
			x >>= 1
			shift++
			wBits--
		}
		if hBits > 0 {
			offset |= (y & 1) << shift
			y >>= 1
			shift++
			hBits--
		}
	}
	return offset
}

func intLog2(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

// rotate90 rotates a square image of side length n (bpp bytes per pixel)
// clockwise by steps*90 degrees in place.
func rotate90(data []byte, n, bpp, steps int) {
	if n <= 0 || bpp <= 0 {
		return
	}

	for ; steps > 0; steps-- {
		w := n / 2
		h := (n + 1) / 2

		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				d0 := (y*n + x) * bpp
				d1 := ((n-1-x)*n + y) * bpp
				d2 := ((n-1-y)*n + (n - 1 - x)) * bpp
				d3 := (x*n + (n - 1 - y)) * bpp

				for p := 0; p < bpp; p++ {
					tmp := data[d0+p]
					data[d0+p] = data[d1+p]
					data[d1+p] = data[d2+p]
					data[d2+p] = data[d3+p]
					data[d3+p] = tmp
				}
			}
		}
	}
}
