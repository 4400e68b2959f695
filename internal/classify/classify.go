package classify

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

// rule maps URL substrings to a source type. Rules are evaluated in order and
// the first match wins; callers rely on that precedence being stable.
type rule struct {
	markers    []string
	sourceType types.SourceType
}

var rules = []rule{
	{markers: []string{"youtube.com", "youtu.be", "vimeo.com"}, sourceType: types.SourceTypeVideoHosting},
	{markers: []string{"tiktok.com", "/shorts/", "/reel"}, sourceType: types.SourceTypeShortFormVideo},
	{markers: []string{"instagram.com", "pinterest."}, sourceType: types.SourceTypeImageSocial},
	{markers: []string{"medium.com", "substack.com", "blog.", ".blog", "/article"}, sourceType: types.SourceTypeArticle},
}

// Classify maps a URL to its source platform. It is pure and total for any
// parseable URL; only an unparseable URL is an error.
func Classify(rawURL string) (types.SourceType, error) {
	host, path, err := splitURL(rawURL)
	if err != nil {
		return "", err
	}
	haystack := host + path
	for _, r := range rules {
		for _, marker := range r.markers {
			if strings.Contains(haystack, marker) {
				return r.sourceType, nil
			}
		}
	}
	return types.SourceTypeGenericWeb, nil
}

// Hostname returns the lowercased host of a URL, used for fallback card titles.
func Hostname(rawURL string) (string, error) {
	host, _, err := splitURL(rawURL)
	if err != nil {
		return "", err
	}
	return host, nil
}

func splitURL(rawURL string) (host, path string, err error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: empty url", apperrors.ErrInvalidArgument)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsed, parseErr := url.Parse(trimmed)
	if parseErr != nil {
		return "", "", fmt.Errorf("%w: unparseable url %q: %v", apperrors.ErrInvalidArgument, rawURL, parseErr)
	}
	if parsed.Hostname() == "" {
		return "", "", fmt.Errorf("%w: url %q has no host", apperrors.ErrInvalidArgument, rawURL)
	}
	return strings.ToLower(parsed.Hostname()), strings.ToLower(parsed.Path), nil
}
