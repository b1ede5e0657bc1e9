// file: internals/helpers/content_disposition.go
package helper

import (
	"net/url"
	"strings"
)

// ContentDispositionAttachment membangun value header Content-Disposition
// untuk download file homework.
//
// Bentuk plain: quote & newline disanitasi supaya header tidak bisa di-inject.
// Bentuk filename*: fallback UTF-8 percent-encoded (RFC 5987) untuk nama file
// non-ASCII (nama siswa/berkas berbahasa Indonesia sering pakai karakter aneh).
func ContentDispositionAttachment(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = "file"
	}

	plain := sanitizeDispositionFilename(name)
	encoded := url.PathEscape(name)

	return `attachment; filename="` + plain + `"; filename*=UTF-8''` + encoded
}

// ContentDispositionInline: varian inline (preview di browser).
func ContentDispositionInline(filename string) string {
	return strings.Replace(ContentDispositionAttachment(filename), "attachment;", "inline;", 1)
}

func sanitizeDispositionFilename(name string) string {
	r := strings.NewReplacer(
		`"`, "'",
		"\\", "_",
		"\r", " ",
		"\n", " ",
	)
	return r.Replace(name)
}
