// Package qrtoken generates and resolves the opaque QR tokens printed on
// book copies. A token is the literal prefix "book_" followed by the
// numeric book id and a random suffix, e.g. "book_7f3a9c1e2".
package qrtoken

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Prefix is the fixed lead-in of every book token.
const Prefix = "book_"

var bookIDPattern = regexp.MustCompile(`book_(\d+)`)

// Generate creates a fresh token for a book id. The random suffix keeps the
// token opaque while the embedded id keeps it parseable for the borrow flow.
// The suffix must not start with a digit or it would bleed into the id when
// the token is parsed back.
func Generate(bookID int64) string {
	suffix := []byte(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
	if suffix[0] >= '0' && suffix[0] <= '9' {
		suffix[0] = 'g' + suffix[0] - '0'
	}
	return fmt.Sprintf("%s%d%s", Prefix, bookID, suffix)
}

// ParseBookID extracts the numeric book id from a scanned token.
// Returns false when the token does not contain a "book_<id>" sequence.
func ParseBookID(token string) (int64, bool) {
	matches := bookIDPattern.FindStringSubmatch(token)
	if matches == nil {
		return 0, false
	}

	id, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// NormalizeScanned strips any directory components and a trailing
// file-extension-like suffix from a scanned value. Clients sometimes submit
// the QR image filename ("book_7abc.png") instead of the decoded token.
func NormalizeScanned(token string) string {
	token = filepath.Base(strings.TrimSpace(token))
	if ext := filepath.Ext(token); ext != "" {
		token = strings.TrimSuffix(token, ext)
	}
	return token
}
