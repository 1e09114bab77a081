package chat

import "strings"

// roomKeySeparator joins the two participant ids. Author ids are uuids and
// contain hyphens, so the separator must be a character that cannot appear
// in an id.
const roomKeySeparator = ":"

// RoomKey derives the broadcast group key for a pair of participants. The
// two ids are sorted before joining so both sides compute the same key no
// matter who connects first.
func RoomKey(a string, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + roomKeySeparator + b
}

// RoomParticipants splits a room key back into its two participant ids.
func RoomParticipants(key string) (string, string) {
	parts := strings.SplitN(key, roomKeySeparator, 2)
	if len(parts) != 2 {
		return key, ""
	}
	return parts[0], parts[1]
}

// IsParticipant reports whether the author is one of the two sides of the
// room.
func IsParticipant(key string, authorID string) bool {
	a, b := RoomParticipants(key)
	return authorID == a || authorID == b
}
