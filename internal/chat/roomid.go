package chat

// Room id derivation. A room is the broadcast channel for one direct-message
// pair or one group chat; the key must come out identical no matter which
// party computes it.

// DirectRoomID returns the room key for the direct conversation between two
// users. The usernames are ordered so both sides derive the same key.
func DirectRoomID(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return "dm:" + userA + ":" + userB
}

// GroupRoomID returns the room key for a group chat. The same key is used as
// the recipient field of persisted group messages.
func GroupRoomID(groupID string) string {
	return "group:" + groupID
}
