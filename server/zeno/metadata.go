package zeno

import (
	"encoding/json"
	"net/url"
	"strings"
)

type Track struct {
	Title  string
	Artist string
	Album  string
}

type metadata struct {
	StreamTitle string `json:"streamTitle"`
	StreamURL   string `json:"streamUrl"`
}

// ParseMetadata turns the data of one now-playing event into a Track. The
// stream title is "Artist - Title" most of the time; album and a missing
// artist can be recovered from the query of the stream url. Data that is not
// JSON is used as the title.
func ParseMetadata(data string) Track {
	var md metadata
	if err := json.Unmarshal([]byte(data), &md); err != nil {
		return Track{Title: data}
	}

	track := Track{Title: md.StreamTitle}
	if strings.Contains(md.StreamTitle, " - ") {
		parts := strings.Split(md.StreamTitle, " - ")
		track.Artist = strings.TrimSpace(parts[0])
		if title := strings.TrimSpace(parts[1]); title != "" {
			track.Title = title
		}
	}

	if md.StreamURL != "" {
		rawQuery := md.StreamURL
		if i := strings.IndexByte(rawQuery, '?'); i >= 0 {
			rawQuery = rawQuery[i+1:]
		}
		// ParseQuery keeps every pair it could decode, so the error is ignored
		query, _ := url.ParseQuery(rawQuery)
		if query.Has("album") {
			track.Album = query.Get("album")
		}
		if track.Artist == "" && query.Has("artist") {
			track.Artist = query.Get("artist")
		}
	}
	return track
}

// SearchQuery is the text used to look the track up on music services.
func (t Track) SearchQuery() string {
	return strings.TrimSpace(t.Artist + " " + t.Title)
}

func (t Track) SpotifyURL() string {
	return "https://open.spotify.com/search/" + url.PathEscape(t.SearchQuery())
}

func (t Track) YouTubeMusicURL() string {
	return "https://music.youtube.com/search?" + url.Values{"q": {t.SearchQuery()}}.Encode()
}
