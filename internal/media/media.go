// Package media picks the static clips and cover images rooms and posts use.
// All matching is lowercase substring or exact-key lookup over fixed tables.
package media

import "strings"

const (
	ClipTechTrend       = "/audio/techtrend.mp3"
	ClipMusicProduction = "/audio/musicproduction.mp3"
	ClipCrypto          = "/audio/crypto.mp3"
	ClipFitness         = "/audio/fitness.mp3"
	ClipTravel          = "/audio/travel.mp3"
	ClipBookClub        = "/audio/bookclub.mp3"
	ClipMeditation      = "/audio/medetation.mp3"
	ClipStartup         = "/audio/startup.mp3"
	ClipFutureOfAI      = "/audio/futureofai.mp3"
	ClipUpdateInMusic   = "/audio/updateinmusic.mp3"
	ClipJoinCall        = "/audio/joincall.mp3"
	ClipLeaveCall       = "/audio/leavecall.mp3"
	ClipLLMInRobotics   = "/audio/llminrobotics.mp3"
	ClipCallGoing       = "/audio/callgoing.mp3"

	JoinSound  = ClipJoinCall
	LeaveSound = ClipLeaveCall

	PlaceholderImage = "/placeholder.svg"
)

type keywordClip struct {
	clip     string
	keywords []string
}

// order matters, the first clip with a matching keyword wins
var captionClips = []keywordClip{
	{ClipTechTrend, []string{"tech", "ai", "robotics", "future"}},
	{ClipMusicProduction, []string{"music", "song", "album", "production"}},
	{ClipCrypto, []string{"crypto", "bitcoin", "blockchain"}},
	{ClipFitness, []string{"fitness", "workout", "exercise"}},
	{ClipTravel, []string{"travel", "trip", "vacation"}},
	{ClipBookClub, []string{"book", "reading", "club"}},
	{ClipMeditation, []string{"meditate", "meditation", "calm"}},
	{ClipStartup, []string{"startup", "founder", "entrepreneur"}},
	{ClipFutureOfAI, []string{"ai", "future"}},
	{ClipUpdateInMusic, []string{"update", "music"}},
	{ClipJoinCall, []string{"join", "call"}},
	{ClipLeaveCall, []string{"leave", "call"}},
	{ClipLLMInRobotics, []string{"llm", "robotics"}},
	{ClipCallGoing, []string{"call", "going"}},
}

type topicClip struct {
	keyword string
	clip    string
}

var topicClips = []topicClip{
	{"book", ClipBookClub},
	{"crypto", ClipCrypto},
	{"fitness", ClipFitness},
	{"ai", ClipFutureOfAI},
	{"robot", ClipLLMInRobotics},
	{"meditation", ClipMeditation},
	{"music", ClipMusicProduction},
	{"startup", ClipStartup},
	{"tech", ClipTechTrend},
	{"travel", ClipTravel},
	{"update", ClipUpdateInMusic},
}

var tagImages = map[string]string{
	"technology": "/images/ai.jpeg",
	"tech":       "/images/ai.jpeg",
	"ai":         "/images/ai.jpg",
	"wellness":   "/images/medetation.jpeg",
	"meditation": "/images/medetation.jpg",
	"business":   "/images/startup.jpeg",
	"startup":    "/images/startup.jpeg",
	"music":      "/images/music.jpeg",
	"fitness":    "/images/fitness.jpeg",
	"health":     "/images/fitness.jpeg",
	"books":      "/images/book.jpeg",
	"reading":    "/images/book.jpeg",
	"travel":     "/images/travel.jpeg",
	"crypto":     "/images/crypto.jpeg",
}

// SelectClipForCaption falls back to the tech trend clip.
func SelectClipForCaption(caption string) string {
	lower := strings.ToLower(caption)
	for _, c := range captionClips {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.clip
			}
		}
	}
	return ClipTechTrend
}

// TopicAudio returns "" when nothing about the room matches.
func TopicAudio(name string, tags []string) string {
	combined := strings.ToLower(name + " " + strings.Join(tags, " "))
	for _, t := range topicClips {
		if strings.Contains(combined, t.keyword) {
			return t.clip
		}
	}
	return ""
}

// ImageForTags uses the first tag with a known image.
func ImageForTags(tags []string) string {
	for _, tag := range tags {
		if image, ok := tagImages[strings.ToLower(tag)]; ok {
			return image
		}
	}
	return PlaceholderImage
}

// IsKnownClip reports whether url is one of the bundled clips.
func IsKnownClip(url string) bool {
	for _, c := range captionClips {
		if c.clip == url {
			return true
		}
	}
	return false
}
