package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/umputun/recipescope/pkg/domain"
)

const minTextChars = 10

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".heic": true, ".bmp": true, ".avif": true,
}

// videoHosts are matched against the host and its parent domains
var videoHosts = map[string]bool{
	"youtube.com": true, "youtu.be": true, "tiktok.com": true, "vimeo.com": true,
}

// Classify detects the input type. Empty and too short inputs and types without
// a decoder (images, videos) are rejected before any network call.
func Classify(input string) (domain.RawInput, *domain.ParseError) {
	text := strings.TrimSpace(input)
	if text == "" {
		return domain.RawInput{}, domain.NewParseError(domain.CodeInvalidInput, "input is empty")
	}

	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "data:image/") {
		return domain.RawInput{Text: text, DetectedType: domain.InputImage},
			domain.NewParseError(domain.CodeUnsupportedInputType, "image input is not supported")
	}

	if u, ok := asURL(text); ok {
		switch {
		case isVideoURL(u):
			return domain.RawInput{Text: text, DetectedType: domain.InputVideo},
				domain.NewParseError(domain.CodeUnsupportedInputType, "video input is not supported")
		case imageExtensions[strings.ToLower(path.Ext(u.Path))]:
			return domain.RawInput{Text: text, DetectedType: domain.InputImage},
				domain.NewParseError(domain.CodeUnsupportedInputType, "image input is not supported")
		}
		return domain.RawInput{Text: u.String(), DetectedType: domain.InputURL}, nil
	}

	if utf8.RuneCountInString(text) < minTextChars {
		return domain.RawInput{Text: text, DetectedType: domain.InputRawText},
			domain.NewParseError(domain.CodeInvalidInput, "input is too short to be a recipe")
	}
	return domain.RawInput{Text: text, DetectedType: domain.InputRawText}, nil
}

// asURL accepts a single http(s) token, a bare "www." host gets https
func asURL(text string) (*url.URL, bool) {
	if strings.ContainsAny(text, " \t\n") {
		return nil, false
	}
	if strings.HasPrefix(strings.ToLower(text), "www.") {
		text = "https://" + text
	}
	u, err := url.Parse(text)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, false
	}
	return u, true
}

func isVideoURL(u *url.URL) bool {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	if videoHosts[host] {
		return true
	}
	for h := range videoHosts {
		if strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return strings.HasSuffix(host, "instagram.com") && (strings.HasPrefix(u.Path, "/reel") || strings.HasPrefix(u.Path, "/tv/"))
}

// CacheKey is the literal URL for URL inputs and a hash of the normalized text for raw text,
// so whitespace and case differences in pasted text hit the same entry
func CacheKey(in domain.RawInput) string {
	if in.DetectedType == domain.InputURL {
		return strings.TrimSpace(in.Text)
	}
	normalized := strings.ToLower(strings.Join(strings.Fields(in.Text), " "))
	sum := sha256.Sum256([]byte(normalized))
	return "text:" + hex.EncodeToString(sum[:])
}
