package platform

import (
	"fmt"
	"strings"
)

// Platform labels returned by Detect.
const (
	YouTube    = "YouTube"
	Spotify    = "Spotify"
	SoundCloud = "SoundCloud"
	AppleMusic = "Apple Music"
	Deezer     = "Deezer"
	Tidal      = "Tidal"
	Unknown    = "Unknown"
)

// hostTable maps host substrings to platform labels, checked in order so
// youtu.be resolves before any later pattern could.
var hostTable = []struct {
	substr string
	label  string
}{
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"spotify.com", Spotify},
	{"soundcloud.com", SoundCloud},
	{"music.apple.com", AppleMusic},
	{"deezer.com", Deezer},
	{"tidal.com", Tidal},
}

// Detect maps a song URL to a platform label by case-insensitive substring
// match. Empty input yields the empty string; unrecognized hosts yield
// "Unknown".
func Detect(url string) string {
	if url == "" {
		return ""
	}
	lower := strings.ToLower(url)
	for _, entry := range hostTable {
		if strings.Contains(lower, entry.substr) {
			return entry.label
		}
	}
	return Unknown
}

// Thumbnail returns a deterministic thumbnail URL for the given song URL,
// or "" when the platform has no derivable thumbnail. Only YouTube
// thumbnails can be constructed without a network call; other platforms
// are left for client-side resolution.
func Thumbnail(url, platform string) string {
	if platform != YouTube {
		return ""
	}
	id := youTubeVideoID(url)
	if id == "" {
		return ""
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", id)
}

// youTubeVideoID extracts the video id from the known YouTube URL shapes.
func youTubeVideoID(url string) string {
	markers := []string{"watch?v=", "youtu.be/", "/embed/", "/v/"}
	for _, marker := range markers {
		idx := strings.Index(url, marker)
		if idx < 0 {
			continue
		}
		id := url[idx+len(marker):]
		if end := strings.IndexAny(id, "?&#/"); end >= 0 {
			id = id[:end]
		}
		if id != "" {
			return id
		}
	}
	return ""
}
