package storage

import (
	"time"

	"voicewave-backend/internal/media"
	"voicewave-backend/internal/models"
)

func seedRooms(createdAt string) []models.Room {
	rooms := []models.Room{
		{ID: "1", Name: "Tech Talk: Future of AI", HostName: "Sarah Johnson", ParticipantCount: 145, SpeakerCount: 3, IsLive: true, Tags: []string{"Technology", "AI", "Discussion"}},
		{ID: "2", Name: "Meditation & Mindfulness", HostName: "Michael Chen", ParticipantCount: 89, SpeakerCount: 2, IsLive: true, Tags: []string{"Wellness", "Meditation"}},
		{ID: "3", Name: "Startup Funding Strategies", HostName: "Alex Rivera", ParticipantCount: 112, SpeakerCount: 5, IsLive: true, Tags: []string{"Business", "Startups", "Finance"}},
		{ID: "4", Name: "Music Production Tips", HostName: "DJ Harmony", ParticipantCount: 78, SpeakerCount: 2, IsLive: true, Tags: []string{"Music", "Production", "Creative"}},
		{ID: "5", Name: `Book Club: "The Midnight Library"`, HostName: "Emily Watson", ParticipantCount: 52, SpeakerCount: 4, IsLive: true, Tags: []string{"Books", "Discussion"}},
		{ID: "6", Name: "Cryptocurrency Market Analysis", HostName: "Crypto King", ParticipantCount: 203, SpeakerCount: 3, IsLive: true, Tags: []string{"Crypto", "Finance", "Trading"}},
		{ID: "7", Name: "Travel Stories: Southeast Asia", HostName: "Wanderlust Jane", ParticipantCount: 67, SpeakerCount: 6, IsLive: false, Tags: []string{"Travel", "Adventure", "Stories"}},
		{ID: "8", Name: "Fitness Motivation", HostName: "Trainer Tom", ParticipantCount: 94, SpeakerCount: 2, IsLive: true, Tags: []string{"Fitness", "Health", "Motivation"}},
	}

	for i := range rooms {
		rooms[i].CreatedAt = createdAt
		rooms[i].ImageURL = media.ImageForTags(rooms[i].Tags)
	}
	return rooms
}

func seedPosts(now time.Time) []models.VoicePost {
	return []models.VoicePost{
		{
			ID:          "1",
			Username:    "Sarah Chen",
			UserAvatar:  "https://i.pravatar.cc/150?u=sarah",
			AudioURL:    media.ClipTechTrend,
			Caption:     "Sharing my thoughts on the latest tech trends! 🚀 #TechTalk",
			Likes:       124,
			Comments:    18,
			CreatedAt:   now.Add(-2 * time.Hour).UTC().Format(time.RFC3339),
			CommentList: []models.Comment{},
		},
		{
			ID:          "2",
			Username:    "Alex Rivera",
			UserAvatar:  "https://i.pravatar.cc/150?u=alex",
			AudioURL:    media.ClipMusicProduction,
			Caption:     "Quick update on my music project 🎵 #MusicLife",
			Likes:       89,
			Comments:    7,
			CreatedAt:   now.Add(-5 * time.Hour).UTC().Format(time.RFC3339),
			CommentList: []models.Comment{},
		},
	}
}

func seedFriends() []models.Friend {
	return []models.Friend{
		{ID: "1", Name: "Alex Johnson", Status: models.StatusOnline, College: "City College", University: "Metro University", Occupation: "Software Engineer", Hobby: "Photography"},
		{ID: "2", Name: "Jamie Smith", Status: models.StatusInRoom, RoomID: "room1", College: "North College", University: "State University", Occupation: "Designer", Hobby: "Cycling"},
		{ID: "3", Name: "Taylor Rodriguez", Status: models.StatusOffline, College: "West College", University: "Central University", Occupation: "Teacher", Hobby: "Reading"},
		{ID: "4", Name: "Jordan Williams", Status: models.StatusOnline, College: "South College", University: "Tech University", Occupation: "Musician", Hobby: "Guitar"},
		{ID: "5", Name: "Casey Thompson", Status: models.StatusInRoom, RoomID: "room2", College: "East College", University: "Arts University", Occupation: "Artist", Hobby: "Painting"},
	}
}

// Suggestions are the people offered in the add-friend dialog.
func Suggestions() []models.Suggestion {
	return []models.Suggestion{
		{ID: "1", Name: "Sarah Parker", MutualFriends: 3},
		{ID: "2", Name: "Mike Johnson", MutualFriends: 5},
		{ID: "3", Name: "Emma Wilson", MutualFriends: 2},
		{ID: "4", Name: "James Brown", MutualFriends: 4},
	}
}

// StarterMessages fill a conversation that has never been opened.
func StarterMessages() []models.ChatMessage {
	return []models.ChatMessage{
		{ID: "1", Sender: models.SenderFriend, Content: "Hey! How are you?", Timestamp: "12:30"},
		{ID: "2", Sender: models.SenderMe, Content: "I am good, what about you?", Timestamp: "12:31"},
		{ID: "3", Sender: models.SenderFriend, Content: "Doing great! Want to join a room later?", Timestamp: "12:32"},
	}
}
