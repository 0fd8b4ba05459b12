package player

import "strings"

// IDFromURI strips a spotify:kind: prefix, returning the bare resource id.
// Plain ids pass through unchanged.
func IDFromURI(uri string) string {
	if !strings.HasPrefix(uri, "spotify:") {
		return uri
	}
	parts := strings.Split(uri, ":")
	return parts[len(parts)-1]
}

// IDsFromURIs maps [IDFromURI] over ids.
func IDsFromURIs(uris []string) []string {
	ids := make([]string, 0, len(uris))
	for _, uri := range uris {
		ids = append(ids, IDFromURI(uri))
	}
	return ids
}

// TrackURI builds a spotify:track: URI from a bare id. URIs pass through.
func TrackURI(id string) string {
	if strings.HasPrefix(id, "spotify:") {
		return id
	}
	return "spotify:track:" + id
}

// UserURI builds a spotify:user: URI from a user id.
func UserURI(userID string) string {
	return "spotify:user:" + userID
}
