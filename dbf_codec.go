package main

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// dbfLanguageDrivers maps the single-byte "language driver ID" found at
// offset 29 of a dBase header to the legacy code page it declares. Only the
// handful of IDs actually seen in the wild are listed; an unmapped ID falls
// back to a direct byte-as-Latin1 decode (encoding.Nop), which is a safe
// no-op for plain ASCII data.
var dbfLanguageDrivers = map[byte]encoding.Encoding{
	0x01: charmap.CodePage437,
	0x02: charmap.CodePage850,
	0x03: charmap.Windows1252,
	0x08: charmap.CodePage865,
	0x09: charmap.CodePage437,
	0x57: charmap.Windows1252,
	0x58: charmap.Windows1252,
	0x59: charmap.Windows1252,
	0xC8: charmap.Windows1250,
	0xC9: charmap.Windows1251,
	0xCA: charmap.ISO8859_1,
	0xCB: charmap.Windows1253,
}

// resolveDBFEncoding returns the decoder for a header's language driver
// byte. This is the out-of-scope "encoding enumeration" collaborator from
// spec.md §6 — a thin table, not a core concern; the core only consumes the
// resulting encoding.Encoding.
func resolveDBFEncoding(languageDriver byte) encoding.Encoding {
	if enc, ok := dbfLanguageDrivers[languageDriver]; ok {
		return enc
	}
	return encoding.Nop
}

// decodeDBFText converts raw DBF character-field bytes to UTF-8 text using
// the resolved source code page.
func decodeDBFText(raw []byte, enc encoding.Encoding) (string, error) {
	if enc == encoding.Nop {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
