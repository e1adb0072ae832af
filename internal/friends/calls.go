package friends

import (
	"errors"
	"time"

	"voicewave-backend/internal/models"
	"voicewave-backend/internal/snowflake"
)

var ErrCallNotFound = errors.New("Call not found")

const (
	// NoAnswerAfter is how long a call rings before nobody picks up.
	NoAnswerAfter = 8 * time.Second
	// JoinDelay is how long joining a friend's room takes.
	JoinDelay = 1800 * time.Millisecond

	callTTL = 5 * time.Minute
	joinTTL = time.Minute

	JoinJoining = "joining"
	JoinJoined  = "joined"
)

func callKey(userID string, callID string) string {
	return "voicewave_call:" + userID + ":" + callID
}

func joinKey(userID string, friendID string) string {
	return "voicewave_join:" + userID + ":" + friendID
}

// callStatus derives the status from the clock, ended is final.
func callStatus(call models.Call, now time.Time) string {
	switch {
	case call.EndedAt != nil:
		return models.CallEnded
	case now.Sub(call.StartedAt) >= NoAnswerAfter:
		return models.CallNoAnswer
	}
	return models.CallCalling
}

func (s *Service) StartCall(userID string, friendID string) (models.Call, error) {
	friend, err := s.Friend(userID, friendID)
	if err != nil {
		return models.Call{}, err
	}
	if friend.Status == models.StatusOffline {
		return models.Call{}, ErrFriendOffline
	}

	call := models.Call{
		ID:         snowflake.GenerateString(),
		FriendID:   friend.ID,
		FriendName: friend.Name,
		StartedAt:  s.now().UTC(),
		Status:     models.CallCalling,
	}
	if err := s.store.SetJSON(callKey(userID, call.ID), call, callTTL); err != nil {
		return models.Call{}, err
	}
	return call, nil
}

func (s *Service) Call(userID string, callID string) (models.Call, error) {
	var call models.Call
	ok, err := s.store.GetJSON(callKey(userID, callID), &call)
	if err != nil {
		return models.Call{}, err
	}
	if !ok {
		return models.Call{}, ErrCallNotFound
	}
	call.Status = callStatus(call, s.now())
	return call, nil
}

// EndCall hangs up. Ending an ended call changes nothing.
func (s *Service) EndCall(userID string, callID string) (models.Call, error) {
	call, err := s.Call(userID, callID)
	if err != nil {
		return models.Call{}, err
	}
	if call.EndedAt != nil {
		return call, nil
	}

	endedAt := s.now().UTC()
	call.EndedAt = &endedAt
	call.Status = models.CallEnded
	if err := s.store.SetJSON(callKey(userID, callID), call, callTTL); err != nil {
		return models.Call{}, err
	}
	return call, nil
}

type JoinStatus struct {
	Status     string `json:"status"`
	RoomID     string `json:"roomId"`
	FriendName string `json:"friendName"`
}

// JoinFriendRoom reports "joining" until JoinDelay after the first request,
// then "joined" once, which also ends the attempt.
func (s *Service) JoinFriendRoom(userID string, friendID string) (JoinStatus, error) {
	friend, err := s.Friend(userID, friendID)
	if err != nil {
		return JoinStatus{}, err
	}
	if friend.Status != models.StatusInRoom || friend.RoomID == "" {
		return JoinStatus{}, ErrFriendNotInRoom
	}

	now := s.now().UTC()
	var startedAt time.Time
	ok, err := s.store.GetJSON(joinKey(userID, friendID), &startedAt)
	if err != nil {
		return JoinStatus{}, err
	}
	if !ok {
		startedAt = now
		if err := s.store.SetJSON(joinKey(userID, friendID), startedAt, joinTTL); err != nil {
			return JoinStatus{}, err
		}
	}

	status := JoinStatus{Status: JoinJoining, RoomID: friend.RoomID, FriendName: friend.Name}
	if now.Sub(startedAt) >= JoinDelay {
		// the join is done, the next request starts a new one
		if _, err := s.store.TakeJSON(joinKey(userID, friendID), &startedAt); err != nil {
			return JoinStatus{}, err
		}
		status.Status = JoinJoined
	}
	return status, nil
}
