package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "file:// URI is converted to local path",
			uri:  "file:///Users/test/documents/call.txt",
			want: "/Users/test/documents/call.txt",
		},
		{
			name: "file:// URI with spaces",
			uri:  "file:///Users/test/my documents/call.txt",
			want: "/Users/test/my documents/call.txt",
		},
		{
			name: "bare path passes through unchanged",
			uri:  "/Users/test/documents/call.txt",
			want: "/Users/test/documents/call.txt",
		},
		{
			name: "relative path passes through unchanged",
			uri:  "relative/path/to/call.txt",
			want: "relative/path/to/call.txt",
		},
		{
			name: "empty string passes through",
			uri:  "",
			want: "",
		},
		{
			name: "windows-style path passes through",
			uri:  "C:\\Users\\test\\call.txt",
			want: "C:\\Users\\test\\call.txt",
		},
		{
			name: "file:// prefix only",
			uri:  "file://",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.uri))
		})
	}
}
