package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and strips punctuation", "MongoDB: Connection-Refused!!", "mongodb connection refused"},
		{"collapses whitespace", "  a\t\tb \n c ", "a b c"},
		{"expands abbreviations", "DB conn via VPN", "database connection via virtual private network"},
		{"whole words only", "dbadmin dashboard", "dbadmin dashboard"},
		{"abbreviation next to punctuation", "(k8s)", "kubernetes"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Run("drops short words and stopwords", func(t *testing.T) {
		got := Tokenize("How do I reset the password for an account?")
		assert.Equal(t, []string{"reset", "password", "account"}, got)
	})

	t.Run("all stopwords yields nothing", func(t *testing.T) {
		assert.Empty(t, Tokenize("the and of it is"))
	})

	t.Run("word length counts runes", func(t *testing.T) {
		assert.Equal(t, []string{"été", "naïve"}, Tokenize("ça où été naïve"))
	})

	t.Run("keeps digits", func(t *testing.T) {
		assert.Equal(t, []string{"http", "502", "gateway"}, Tokenize("HTTP 502 gateway"))
	})
}

func TestTokenizeWithBigrams(t *testing.T) {
	t.Run("adjacent pairs", func(t *testing.T) {
		got := TokenizeWithBigrams("MongoDB connection refused")
		assert.Equal(t, []string{
			"mongodb", "connection", "refused",
			"mongodb_connection", "connection_refused",
		}, got)
	})

	t.Run("single token has no bigram", func(t *testing.T) {
		assert.Equal(t, []string{"kubernetes"}, TokenizeWithBigrams("k8s"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, TokenizeWithBigrams("   "))
	})
}

func TestExtractKeywords(t *testing.T) {
	t.Run("drops nuisance words", func(t *testing.T) {
		assert.Equal(t, []string{"mongodb", "connection"}, ExtractKeywords("mongodb connection error"))
	})

	t.Run("deduplicates in order", func(t *testing.T) {
		assert.Equal(t, []string{"printer", "offline"}, ExtractKeywords("printer offline, printer OFFLINE"))
	})

	t.Run("only nuisance words", func(t *testing.T) {
		assert.Empty(t, ExtractKeywords("please help fix this error"))
	})
}
