package huffman

import "errors"

var (
	errTooLong     = errors.New("huffman: code length exceeds table maximum")
	errEmpty       = errors.New("huffman: no symbols with a non-zero length")
	errInvalidCode = errors.New("huffman: invalid code in bitstream")
)
