package config

import (
	"fmt"

	"github.com/google/uuid"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a member's login session.
func (r *CacheKeyStruct) UserSessionKey(userID uuid.UUID) string {
	return fmt.Sprintf("login:%s", userID)
}

// CoursePayloadKey returns the cache key for a published course's player payload.
func (r *CacheKeyStruct) CoursePayloadKey(courseID string) string {
	return fmt.Sprintf("kursus:%s:payload", courseID)
}

// ProgressChannel returns the Redis PubSub channel for a user's progress
// refresh events. The WebSocket stream relays messages published here.
func (r *CacheKeyStruct) ProgressChannel(userID uuid.UUID) string {
	return fmt.Sprintf("gebruiker:%s:vordering", userID)
}

var CacheKey = NewCacheKeyStruct()
