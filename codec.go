package goxios

import (
	"strconv"
)

// Ascii returns this code in ascii chain form, e.g. "0i1.1o2.".
// Every edge appears as its origin ID, type letter, destination ID, and a
// terminating '.'; the form is unambiguous for any vertex count.
func (code DfsCode) Ascii() string {
	return string(code.AppendAsciiTo(nil))
}

func (code DfsCode) String() string {
	return code.Ascii()
}

// AppendAsciiTo appends the ascii chain form of this code to dst.
func (code DfsCode) AppendAsciiTo(dst []byte) []byte {
	for _, e := range code {
		dst = strconv.AppendInt(dst, int64(e.V0), 10)
		dst = append(dst, e.Type.Rune())
		dst = strconv.AppendInt(dst, int64(e.V1), 10)
		dst = append(dst, '.')
	}
	return dst
}

// ParseAscii decodes an ascii chain form code.
func ParseAscii(s string) (DfsCode, error) {
	code := make(DfsCode, 0, len(s)/4)
	for i := 0; i < len(s); {
		v0, n := parseVtxID(s[i:])
		if n == 0 {
			return nil, ErrBadEncoding
		}
		i += n
		if i >= len(s) {
			return nil, ErrBadEncoding
		}
		et, err := EdgeTypeFromRune(s[i])
		if err != nil {
			return nil, err
		}
		i++
		v1, n := parseVtxID(s[i:])
		if n == 0 {
			return nil, ErrBadEncoding
		}
		i += n
		if i >= len(s) || s[i] != '.' {
			return nil, ErrBadEncoding
		}
		i++
		code = append(code, Edge{v0, v1, et})
	}
	return code, nil
}

func parseVtxID(s string) (int32, int) {
	v := int32(0)
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		v = v*10 + int32(s[n]-'0')
		if v >= MaxStems {
			return 0, 0
		}
		n++
	}
	return v, n
}

const hexDigits = "0123456789abcdef"

// AppendHexTo appends the compact one-byte-per-edge hex form of this code
// to dst.  Each edge packs into a single byte as v0:3 | v1:3 | type:2, so
// the form only admits codes with at most MaxStemsHex vertices and no
// excluded-type edges.
func (code DfsCode) AppendHexTo(dst []byte) ([]byte, error) {
	for _, e := range code {
		if e.Type >= 4 {
			return dst, ErrBadEdgeType
		}
		if e.V0 >= MaxStemsHex || e.V1 >= MaxStemsHex || e.V0 < 0 || e.V1 < 0 {
			return dst, ErrBadVtxID
		}
		b := byte(e.V0)<<5 | byte(e.V1)<<2 | byte(e.Type)
		dst = append(dst, hexDigits[b>>4], hexDigits[b&0xF])
	}
	return dst, nil
}

// AppendHex2To appends the two-byte-per-edge hex form of this code to dst.
// Each edge packs into two bytes, the 7 low bits of each carrying a vertex
// ID and the top bits splitting the 2-bit type code, so the form admits
// codes with up to MaxStems vertices (but no excluded-type edges).
func (code DfsCode) AppendHex2To(dst []byte) ([]byte, error) {
	for _, e := range code {
		if e.Type >= 4 {
			return dst, ErrBadEdgeType
		}
		if e.V0 >= MaxStems || e.V1 >= MaxStems || e.V0 < 0 || e.V1 < 0 {
			return dst, ErrBadVtxID
		}
		b0 := byte(e.V0) | byte(e.Type&2)<<6
		b1 := byte(e.V1) | byte(e.Type&1)<<7
		dst = append(dst, hexDigits[b0>>4], hexDigits[b0&0xF])
		dst = append(dst, hexDigits[b1>>4], hexDigits[b1&0xF])
	}
	return dst, nil
}

// ParseHex decodes a one-byte-per-edge hex form code.
func ParseHex(s string) (DfsCode, error) {
	if len(s)&1 != 0 {
		return nil, ErrBadEncoding
	}
	code := make(DfsCode, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		b, err := hexByte(s[i], s[i+1])
		if err != nil {
			return nil, err
		}
		code = append(code, Edge{
			V0:   int32(b >> 5),
			V1:   int32(b >> 2 & 0x7),
			Type: EdgeType(b & 0x3),
		})
	}
	return code, nil
}

// ParseHex2 decodes a two-byte-per-edge hex form code.
func ParseHex2(s string) (DfsCode, error) {
	if len(s)&3 != 0 {
		return nil, ErrBadEncoding
	}
	code := make(DfsCode, 0, len(s)/4)
	for i := 0; i < len(s); i += 4 {
		b0, err := hexByte(s[i], s[i+1])
		if err != nil {
			return nil, err
		}
		b1, err := hexByte(s[i+2], s[i+3])
		if err != nil {
			return nil, err
		}
		code = append(code, Edge{
			V0:   int32(b0 & 0x7F),
			V1:   int32(b1 & 0x7F),
			Type: EdgeType(b0>>6&2 | b1>>7),
		})
	}
	return code, nil
}

func hexByte(hi, lo byte) (byte, error) {
	h, err := hexNibble(hi)
	if err != nil {
		return 0, err
	}
	l, err := hexNibble(lo)
	if err != nil {
		return 0, err
	}
	return h<<4 | l, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, ErrBadEncoding
}
