package lessondoc

import "strings"

// DefaultFilename is the file stem used when a topic yields no name.
const DefaultFilename = "giao_an"

// Filename derives an output file name from a lesson topic: the trimmed topic
// with every rune outside [A-Za-z0-9] replaced by "_", lower-cased, plus ext.
// ext may be given with or without the leading dot; empty means no extension.
//
// Accented letters are replaced too, so "Phân số" becomes "ph_n_s_".
func Filename(topic, ext string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			return r
		case 'A' <= r && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, strings.TrimSpace(topic))
	if stem == "" {
		stem = DefaultFilename
	}
	if ext == "" {
		return stem
	}
	return stem + "." + strings.TrimPrefix(ext, ".")
}
