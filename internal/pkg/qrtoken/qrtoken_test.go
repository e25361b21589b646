package qrtoken_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oussamab/maktaba/internal/pkg/qrtoken"
)

func Test_Generate_RoundTrips(t *testing.T) {
	// The random suffix is hex, so roughly half the generated tokens would
	// start the suffix with a digit and corrupt the parsed id if Generate
	// did not guard against it. Enough iterations to make that certain.
	for _, bookID := range []int64{7, 42, 1234} {
		for i := 0; i < 200; i++ {
			token := qrtoken.Generate(bookID)

			assert.True(t, strings.HasPrefix(token, qrtoken.Prefix))

			id, ok := qrtoken.ParseBookID(token)
			require.True(t, ok, "token %s must parse", token)
			require.Equal(t, bookID, id, "token %s must resolve to book %d", token, bookID)
		}
	}
}

func Test_Generate_TokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := qrtoken.Generate(7)
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}

func Test_ParseBookID(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		wantID int64
		wantOK bool
	}{
		{
			name:   "bare_id",
			token:  "book_7",
			wantID: 7,
			wantOK: true,
		},
		{
			name:   "id_with_random_suffix",
			token:  "book_7f3a9c1e2b4d",
			wantID: 7,
			wantOK: true,
		},
		{
			name:   "token_embedded_in_filename",
			token:  "qr_codes/book_123abc.png",
			wantID: 123,
			wantOK: true,
		},
		{
			name:   "leading_zeroes",
			token:  "book_007",
			wantID: 7,
			wantOK: true,
		},
		{
			name:   "missing_id",
			token:  "book_",
			wantOK: false,
		},
		{
			name:   "wrong_prefix",
			token:  "shelf_7",
			wantOK: false,
		},
		{
			name:   "empty",
			token:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := qrtoken.ParseBookID(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func Test_NormalizeScanned(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain_token_unchanged",
			input: "book_7f3a9c1e2b4d",
			want:  "book_7f3a9c1e2b4d",
		},
		{
			name:  "filename_extension_stripped",
			input: "book_7abc.png",
			want:  "book_7abc",
		},
		{
			name:  "directory_components_stripped",
			input: "uploads/qr/book_7abc.svg",
			want:  "book_7abc",
		},
		{
			name:  "surrounding_whitespace_trimmed",
			input: "  book_7abc  ",
			want:  "book_7abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, qrtoken.NormalizeScanned(tt.input))
		})
	}
}
