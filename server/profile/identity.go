package profile

import (
	"errors"

	"github.com/disgoorg/disgo/discord"

	"github.com/cirno-club/clubsite/server/platform"
)

// ErrNoAvatar is returned by a Source whose lookup succeeded but carried no
// avatar. The resolver moves on to the next source.
var ErrNoAvatar = errors.New("no avatar")

type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
	StatusGray   Status = "gray"
)

// StatusFromDiscord maps a presence status to its indicator color. Anything
// but online, idle and dnd is gray.
func StatusFromDiscord(status discord.OnlineStatus) Status {
	switch status {
	case discord.OnlineStatusOnline:
		return StatusGreen
	case discord.OnlineStatusIdle:
		return StatusYellow
	case discord.OnlineStatusDND:
		return StatusRed
	}
	return StatusGray
}

// Identity is the avatar and status shown for a member. Both come from a
// single source.
type Identity struct {
	AvatarURL string
	Status    Status
	Source    string
}

const (
	SourceDiscord     = "discord"
	SourceOsu         = "osu"
	SourceQuaver      = "quaver"
	SourceBeatLeader  = "beatleader"
	SourcePlaceholder = "placeholder"
)

func placeholder(profilePicture string) Identity {
	avatar := profilePicture
	if avatar == "" {
		avatar = platform.PlaceholderImage
	}
	return Identity{
		AvatarURL: avatar,
		Status:    StatusGray,
		Source:    SourcePlaceholder,
	}
}
