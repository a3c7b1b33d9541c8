package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsThreadReply(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"top level", Message{Timestamp: "100.1"}, false},
		{"thread parent", Message{Timestamp: "100.1", ThreadTimestamp: "100.1"}, false},
		{"thread reply", Message{Timestamp: "100.2", ThreadTimestamp: "100.1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.msg.IsThreadReply())
		})
	}
}
