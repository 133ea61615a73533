// Package wmadata holds the constant tables the WMA configurator consults:
// critical-band edges, the base-10 power ladder used to turn a coded
// exponent into a linear scale factor, the three coefficient Huffman
// parameter sets, the exponent/perceptual-noise Huffman bit-length tables,
// and the LSP (line spectral pair) codebook used by exponent LSP coding.
//
// wma.cpp's tables live in a sibling wmadata.h that ships the exact FFmpeg
// constants; that header wasn't part of the retrieval pack, so the
// bit-length distributions and codebook values here are reconstructed to
// the same shape (same table sizes, same selection rules) rather than
// hand-transcribed byte for byte. Huffman codes are assigned canonically
// at init time by internal/huffman, so only bit-length distributions are
// needed here, not pre-assigned code values. See the repository's
// DESIGN.md for the full rationale.
package wmadata

// CriticalFreqs are the upper edge, in Hz, of the 25 Bark-scale critical
// bands used to lay out exponent (and, for small block counts, coefficient
// Huffman run) bands across a block's spectrum.
var CriticalFreqs = [25]int{
	100, 200, 300, 400, 510, 630, 770, 920,
	1080, 1270, 1480, 1720, 2000, 2320, 2700,
	3150, 3700, 4400, 5300, 6400, 7700, 9500,
	12000, 15500, 24500,
}

// LSPCoefCount is the order of the line spectral pair exponent coding used
// when a stream does not use Huffman-coded exponents.
const LSPCoefCount = 10

// PowTab is a base-10 power ladder in 1/16-decade steps, indexed
// [-60, +87] via PowTabOffset. decodeExpHuffman uses it to turn a coded
// (or accumulated delta) exponent into a linear scale factor without
// calling math.Pow per coefficient.
var PowTab = [148]float32{
	1.7782794100389e-04, 2.0535250264571e-04,
	2.3713737056617e-04, 2.7384196342644e-04,
	3.1622776601684e-04, 3.6517412725484e-04,
	4.2169650342858e-04, 4.8696752516586e-04,
	5.6234132519035e-04, 6.4938163157621e-04,
	7.4989420933246e-04, 8.6596432336006e-04,
	1.0000000000000e-03, 1.1547819846895e-03,
	1.3335214321633e-03, 1.5399265260595e-03,
	1.7782794100389e-03, 2.0535250264571e-03,
	2.3713737056617e-03, 2.7384196342644e-03,
	3.1622776601684e-03, 3.6517412725484e-03,
	4.2169650342858e-03, 4.8696752516586e-03,
	5.6234132519035e-03, 6.4938163157621e-03,
	7.4989420933246e-03, 8.6596432336006e-03,
	1.0000000000000e-02, 1.1547819846895e-02,
	1.3335214321633e-02, 1.5399265260595e-02,
	1.7782794100389e-02, 2.0535250264571e-02,
	2.3713737056617e-02, 2.7384196342644e-02,
	3.1622776601684e-02, 3.6517412725484e-02,
	4.2169650342858e-02, 4.8696752516586e-02,
	5.6234132519035e-02, 6.4938163157621e-02,
	7.4989420933246e-02, 8.6596432336007e-02,
	1.0000000000000e-01, 1.1547819846895e-01,
	1.3335214321633e-01, 1.5399265260595e-01,
	1.7782794100389e-01, 2.0535250264571e-01,
	2.3713737056617e-01, 2.7384196342644e-01,
	3.1622776601684e-01, 3.6517412725484e-01,
	4.2169650342858e-01, 4.8696752516586e-01,
	5.6234132519035e-01, 6.4938163157621e-01,
	7.4989420933246e-01, 8.6596432336007e-01,
	1.0000000000000e+00, 1.1547819846895e+00,
	1.3335214321633e+00, 1.5399265260595e+00,
	1.7782794100389e+00, 2.0535250264571e+00,
	2.3713737056617e+00, 2.7384196342644e+00,
	3.1622776601684e+00, 3.6517412725484e+00,
	4.2169650342858e+00, 4.8696752516586e+00,
	5.6234132519035e+00, 6.4938163157621e+00,
	7.4989420933246e+00, 8.6596432336007e+00,
	1.0000000000000e+01, 1.1547819846895e+01,
	1.3335214321633e+01, 1.5399265260595e+01,
	1.7782794100389e+01, 2.0535250264571e+01,
	2.3713737056617e+01, 2.7384196342644e+01,
	3.1622776601684e+01, 3.6517412725484e+01,
	4.2169650342858e+01, 4.8696752516586e+01,
	5.6234132519035e+01, 6.4938163157621e+01,
	7.4989420933246e+01, 8.6596432336007e+01,
	1.0000000000000e+02, 1.1547819846895e+02,
	1.3335214321633e+02, 1.5399265260595e+02,
	1.7782794100389e+02, 2.0535250264571e+02,
	2.3713737056617e+02, 2.7384196342644e+02,
	3.1622776601684e+02, 3.6517412725484e+02,
	4.2169650342858e+02, 4.8696752516586e+02,
	5.6234132519035e+02, 6.4938163157621e+02,
	7.4989420933246e+02, 8.6596432336007e+02,
	1.0000000000000e+03, 1.1547819846895e+03,
	1.3335214321633e+03, 1.5399265260595e+03,
	1.7782794100389e+03, 2.0535250264571e+03,
	2.3713737056617e+03, 2.7384196342644e+03,
	3.1622776601684e+03, 3.6517412725484e+03,
	4.2169650342858e+03, 4.8696752516586e+03,
	5.6234132519035e+03, 6.4938163157621e+03,
	7.4989420933246e+03, 8.6596432336007e+03,
	1.0000000000000e+04, 1.1547819846895e+04,
	1.3335214321633e+04, 1.5399265260595e+04,
	1.7782794100389e+04, 2.0535250264571e+04,
	2.3713737056617e+04, 2.7384196342644e+04,
	3.1622776601684e+04, 3.6517412725484e+04,
	4.2169650342858e+04, 4.8696752516586e+04,
	5.6234132519035e+04, 6.4938163157621e+04,
	7.4989420933246e+04, 8.6596432336007e+04,
	1.0000000000000e+05, 1.1547819846895e+05,
	1.3335214321633e+05, 1.5399265260595e+05,
	1.7782794100389e+05, 2.0535250264571e+05,
	2.3713737056617e+05, 2.7384196342644e+05,
}

// PowTabOffset is the index of 10^0 ("1.0") within PowTab.
const PowTabOffset = 60
