package chat

import "testing"

func TestDirectRoomID(t *testing.T) {
	tests := []struct {
		name  string
		userA string
		userB string
		want  string
	}{
		{
			name:  "already ordered",
			userA: "alice",
			userB: "bob",
			want:  "dm:alice:bob",
		},
		{
			name:  "reversed order",
			userA: "bob",
			userB: "alice",
			want:  "dm:alice:bob",
		},
		{
			name:  "same user both sides",
			userA: "alice",
			userB: "alice",
			want:  "dm:alice:alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirectRoomID(tt.userA, tt.userB); got != tt.want {
				t.Errorf("DirectRoomID(%q, %q) = %q, want %q", tt.userA, tt.userB, got, tt.want)
			}
		})
	}
}

func TestDirectRoomIDSymmetry(t *testing.T) {
	if DirectRoomID("carol", "dave") != DirectRoomID("dave", "carol") {
		t.Error("DirectRoomID() is not symmetric")
	}
}

func TestGroupRoomID(t *testing.T) {
	if got := GroupRoomID("7"); got != "group:7" {
		t.Errorf("GroupRoomID(\"7\") = %q, want %q", got, "group:7")
	}
}
