package lanyard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const cdnURL = "https://cdn.discordapp.com"

type presenceResp struct {
	Success bool      `json:"success"`
	Data    *Presence `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Presence struct {
	User               User                 `json:"discord_user"`
	Status             discord.OnlineStatus `json:"discord_status"`
	ActiveOnDesktop    bool                 `json:"active_on_discord_desktop"`
	ActiveOnMobile     bool                 `json:"active_on_discord_mobile"`
	ListeningToSpotify bool                 `json:"listening_to_spotify"`
	Spotify            *Spotify             `json:"spotify"`
	Activities         []Activity           `json:"activities"`
}

type User struct {
	ID            snowflake.ID `json:"id"`
	Username      string       `json:"username"`
	GlobalName    string       `json:"global_name"`
	Discriminator string       `json:"discriminator"`
	Avatar        string       `json:"avatar"`
}

// AvatarURL returns the user's avatar, animated when the hash marks it as
// such, or one of the five default avatars picked by discriminator.
func (u User) AvatarURL() string {
	if u.Avatar == "" {
		discriminator, _ := strconv.Atoi(u.Discriminator)
		return fmt.Sprintf("%s/embed/avatars/%d.png", cdnURL, discriminator%5)
	}

	ext := "png"
	if strings.HasPrefix(u.Avatar, "a_") {
		ext = "gif"
	}
	return fmt.Sprintf("%s/avatars/%s/%s.%s?size=128", cdnURL, u.ID, u.Avatar, ext)
}

type Spotify struct {
	TrackID     string `json:"track_id"`
	Song        string `json:"song"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	AlbumArtURL string `json:"album_art_url"`
	Timestamps  struct {
		Start int64 `json:"start"`
		End   int64 `json:"end"`
	} `json:"timestamps"`
}

type Activity struct {
	ID            string               `json:"id"`
	Type          discord.ActivityType `json:"type"`
	Name          string               `json:"name"`
	Details       string               `json:"details"`
	State         string               `json:"state"`
	ApplicationID string               `json:"application_id"`
	Timestamps    *struct {
		Start int64 `json:"start"`
		End   int64 `json:"end"`
	} `json:"timestamps"`
	Assets *struct {
		LargeImage string `json:"large_image"`
		LargeText  string `json:"large_text"`
		SmallImage string `json:"small_image"`
		SmallText  string `json:"small_text"`
	} `json:"assets"`
}

func (a Activity) LargeImageURL() string {
	if a.Assets == nil || a.Assets.LargeImage == "" || a.ApplicationID == "" {
		return ""
	}
	return a.assetURL(a.Assets.LargeImage)
}

func (a Activity) SmallImageURL() string {
	if a.Assets == nil || a.Assets.SmallImage == "" || a.ApplicationID == "" {
		return ""
	}
	return a.assetURL(a.Assets.SmallImage)
}

func (a Activity) assetURL(asset string) string {
	return fmt.Sprintf("%s/app-assets/%s/%s.png", cdnURL, a.ApplicationID, asset)
}

// Minutes is how long the activity has been running at now, or has run in
// total when it has an end. ok is false if the activity has no start time.
func (a Activity) Minutes(now time.Time) (minutes int, ok bool) {
	if a.Timestamps == nil || a.Timestamps.Start == 0 {
		return 0, false
	}
	end := now
	if a.Timestamps.End != 0 {
		end = time.UnixMilli(a.Timestamps.End)
	}
	return int(end.Sub(time.UnixMilli(a.Timestamps.Start)).Minutes()), true
}
