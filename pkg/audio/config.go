package audio

import "strings"

// ContentType hints the transcoding decoder about the kind of material it is
// normalising. It has no effect on feature extraction or scoring.
type ContentType string

const (
	ContentMusic   ContentType = "music"
	ContentNews    ContentType = "news"
	ContentSports  ContentType = "sports"
	ContentTalk    ContentType = "talk"
	ContentMixed   ContentType = "mixed"
	ContentUnknown ContentType = "unknown"
)

// ContentTypes lists every accepted content type.
func ContentTypes() []ContentType {
	return []ContentType{ContentMusic, ContentNews, ContentSports, ContentTalk, ContentMixed}
}

// ParseContentType maps a configuration value to a ContentType.
func ParseContentType(contentType string) ContentType {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "music", "audio/music":
		return ContentMusic
	case "news":
		return ContentNews
	case "talk", "spoken", "speech":
		return ContentTalk
	case "sports":
		return ContentSports
	case "mixed", "":
		return ContentMixed
	default:
		return ContentUnknown
	}
}
