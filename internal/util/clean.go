package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

const maxBinaryCheckBytes = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// typographic characters that caption and dictation services emit, mapped to
// plain equivalents so regex heuristics see ASCII punctuation.
var charReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201C", "\"", "\u201D", "\"",
	"\u2013", "-", "\u2014", "--", "\u2026", "...", "\u00a0", " ",
	"\u0096", "-", "\u0097", "--", "\u0091", "'", "\u0092", "'",
	"\u0093", "\"", "\u0094", "\"", "\u200b", "",
	"&#39;", "'", "&quot;", "\"", "&amp;", "&",
)

// IsLikelyBinary reports whether the file at path looks like binary data.
func IsLikelyBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, maxBinaryCheckBytes)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return bytes.Contains(buffer[:n], []byte{0}), nil
}

// CleanText strips a BOM, repairs invalid UTF-8 and normalizes typographic
// punctuation. src names the origin of the text for log messages.
func CleanText(content []byte, src string) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	if !utf8.Valid(content) {
		log.Warnf("%s: invalid UTF-8, replacing invalid chars", src)
		content = bytes.ToValidUTF8(content, []byte(string(utf8.RuneError)))
	}

	str := charReplacer.Replace(string(content))

	if !utf8.ValidString(str) {
		log.Errorf("%s: still invalid after cleaning", src)
		return "", fmt.Errorf("invalid UTF-8 after replacements: %s", src)
	}
	return strings.TrimSpace(str), nil
}
