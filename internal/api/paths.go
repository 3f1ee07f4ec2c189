package api

import (
	"net/url"
	"strconv"
	"strings"
)

// EncodeSegment percent-encodes text for use as a single path segment.
// Every byte outside the RFC 3986 unreserved set is escaped, including "/",
// "&", "+" and space (as %20), so the segment round-trips through PathUnescape.
func EncodeSegment(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// idPath builds prefix/<id>[/suffix]. IDs are decimal with no encoding.
func idPath(prefix string, id int, suffix string) string {
	path := prefix + "/" + strconv.Itoa(id)
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

// textPath builds prefix/<encoded text>.
func textPath(prefix, text string) string {
	return prefix + "/" + EncodeSegment(text)
}
