package rfc7233

import "strconv"

// §  4.2.  Content-Range
// §
// §     The "Content-Range" header field is sent in a single part 206
// §     (Partial Content) response to indicate the partial range of the
// §     selected representation enclosed as the message payload, sent in
// §     each part of a multipart 206 response to indicate the range
// §     enclosed within each body part, and sent in 416 (Range Not
// §     Satisfiable) responses to provide information about the selected
// §     representation.
// §
// §       Content-Range       = byte-content-range
// §       byte-content-range  = bytes-unit SP ( byte-range-resp
// §                                           / unsatisfied-range )
// §       byte-range-resp     = byte-range "/" ( complete-length / "*" )
// §       byte-range          = first-byte-pos "-" last-byte-pos
// §       unsatisfied-range   = "*/" complete-length

// ContentRange formats the Content-Range value for a satisfied range.
func (r ByteRange) ContentRange(size int64) string {
	return "bytes " + strconv.FormatInt(r.Start, 10) + "-" +
		strconv.FormatInt(r.Start+r.Length-1, 10) + "/" + strconv.FormatInt(size, 10)
}

// ContentRangeUnsatisfied formats the Content-Range value sent with a
// 416 response.
func ContentRangeUnsatisfied(size int64) string {
	return "bytes */" + strconv.FormatInt(size, 10)
}
