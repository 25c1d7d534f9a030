package rfc7233

import (
	"strconv"
	"strings"
)

// §  2.1.  Byte Ranges
// §
// §     Since representation data is transferred in payloads as a sequence
// §     of octets, a byte range is a meaningful substructure for any
// §     representation transferable over HTTP (Section 3 of [RFC7231]).
// §     The "bytes" range unit is defined for expressing subranges of the
// §     data's octet sequence.
// §
// §       byte-ranges-specifier = bytes-unit "=" byte-range-set
// §       byte-range-set  = 1#( byte-range-spec / suffix-byte-range-spec )
// §       byte-range-spec = first-byte-pos "-" [ last-byte-pos ]
// §       first-byte-pos  = 1*DIGIT
// §       last-byte-pos   = 1*DIGIT
// §
// §     A client can request the last N bytes of the selected
// §     representation using a suffix-byte-range-spec.
// §
// §       suffix-byte-range-spec = "-" suffix-length
// §       suffix-length = 1*DIGIT

// ByteRange is one satisfiable byte range, resolved against the
// representation size: Start is the absolute first byte position and
// Length the number of bytes.
type ByteRange struct {
	Start  int64
	Length int64
}

// ParseRange parses a Range header value against a representation of the
// given size.
//
// It returns (nil, true) when the header is empty, malformed, or uses a
// range unit other than bytes; a server is allowed to ignore Range and
// send the full representation. It returns (nil, false) when the header
// is a syntactically valid byte-ranges-specifier but none of the
// requested ranges overlap the representation, which must produce
// 416 Range Not Satisfiable.
func ParseRange(header string, size int64) ([]ByteRange, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, true
	}
	spec, found := strings.CutPrefix(header, "bytes=")
	if !found {
		return nil, true
	}
	var ranges []ByteRange
	sawValid := false
	for _, elem := range strings.Split(spec, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		first, last, found := strings.Cut(elem, "-")
		if !found {
			return nil, true
		}
		if first == "" {
			// §  suffix-byte-range-spec: the last N bytes
			n, err := strconv.ParseInt(last, 10, 64)
			if err != nil || n < 0 {
				return nil, true
			}
			sawValid = true
			if n == 0 || size == 0 {
				continue
			}
			if n > size {
				n = size
			}
			ranges = append(ranges, ByteRange{Start: size - n, Length: n})
			continue
		}
		start, err := strconv.ParseInt(first, 10, 64)
		if err != nil || start < 0 {
			return nil, true
		}
		end := size - 1
		if last != "" {
			end, err = strconv.ParseInt(last, 10, 64)
			if err != nil || end < start {
				return nil, true
			}
		}
		sawValid = true
		if start >= size {
			// valid spec, but past the end of the representation
			continue
		}
		if end > size-1 {
			end = size - 1
		}
		ranges = append(ranges, ByteRange{Start: start, Length: end - start + 1})
	}
	if !sawValid {
		return nil, true
	}
	if len(ranges) == 0 {
		// §  4.4.  416 Range Not Satisfiable
		return nil, false
	}
	return ranges, true
}
