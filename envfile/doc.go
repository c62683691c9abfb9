// Package envfile reads and writes .env files: line-oriented KEY=VALUE text
// used to override process environment variables.
//
// # Format
//
// Each line is blank, a comment, or a pair:
//
//	# comment lines start with '#'
//	PORT=9777
//	DEVICE="/dev/ttyUSB0"   # trailing comments follow whitespace
//	GREETING="hello\tworld\x21"
//
// Keys extend to the first '=' and may not contain whitespace. Unquoted values
// end at the first whitespace byte or newline. Quoted values may span lines
// and recognize the escapes \n, \r, \t, \\, \" and \xHH. After a value, only
// whitespace and a comment may appear on the line. There is no variable
// interpolation.
//
// # Scanning
//
// A [Scanner] pulls pairs from an [io.ByteReader] into a fixed-size scratch
// buffer, so memory use does not grow with the input. [Parse] and its
// variants drive a Scanner and deliver each pair to a [Sink] such as [Map].
// The first structural problem aborts the parse with an error matching one of
// the package's sentinel errors; pairs delivered before it are kept.
//
// # Encoding
//
// [Format] writes a [Map] in the same format, quoting only the values that
// need it, so that parsing the output reproduces the map.
package envfile
