package classify

import (
	"errors"
	"testing"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

func TestClassify_KnownPlatforms(t *testing.T) {
	cases := []struct {
		url  string
		want types.SourceType
	}{
		{"https://www.youtube.com/watch?v=abc", types.SourceTypeVideoHosting},
		{"https://youtu.be/abc", types.SourceTypeVideoHosting},
		{"https://vimeo.com/12345", types.SourceTypeVideoHosting},
		{"https://www.tiktok.com/@user/video/1", types.SourceTypeShortFormVideo},
		{"https://www.instagram.com/p/abc/", types.SourceTypeImageSocial},
		{"https://medium.com/@a/some-post", types.SourceTypeArticle},
		{"https://blog.example.com/post", types.SourceTypeArticle},
		{"https://example.com/anything", types.SourceTypeGenericWeb},
		{"example.com/no-scheme", types.SourceTypeGenericWeb},
	}
	for _, tc := range cases {
		got, err := Classify(tc.url)
		if err != nil {
			t.Fatalf("Classify(%q) returned error: %v", tc.url, err)
		}
		if got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc"
	first, err := Classify(url)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Classify(url)
		if err != nil {
			t.Fatalf("Classify returned error on call %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("Classify not deterministic: %q then %q", first, again)
		}
	}
}

func TestClassify_RulePrecedence(t *testing.T) {
	// Host matches the video-hosting rule, path matches the short-form rule;
	// the earlier rule must win.
	got, err := Classify("https://www.youtube.com/shorts/abc123")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got != types.SourceTypeVideoHosting {
		t.Fatalf("expected video-hosting to take precedence, got %q", got)
	}
}

func TestClassify_UnparseableURL(t *testing.T) {
	for _, bad := range []string{"", "   ", "http://"} {
		if _, err := Classify(bad); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Fatalf("Classify(%q) expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

func TestHostname(t *testing.T) {
	host, err := Hostname("https://WWW.YouTube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Hostname returned error: %v", err)
	}
	if host != "www.youtube.com" {
		t.Fatalf("Hostname = %q, want www.youtube.com", host)
	}
}
