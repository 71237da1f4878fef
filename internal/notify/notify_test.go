package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendPostsToTopic(t *testing.T) {
	var gotPath, gotTitle, gotPriority, gotTags, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTitle = r.Header.Get("Title")
		gotPriority = r.Header.Get("Priority")
		gotTags = r.Header.Get("Tags")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	n := New(server.URL, "podcasts")
	ok := n.Send("Podcast ready: Demo", "Duration: 2m05s", "", "white_check_mark,podcast")

	assert.True(t, ok)
	assert.Equal(t, "/podcasts", gotPath)
	assert.Equal(t, "Podcast ready: Demo", gotTitle)
	assert.Empty(t, gotPriority, "default priority sends no header")
	assert.Equal(t, "white_check_mark,podcast", gotTags)
	assert.Equal(t, "Duration: 2m05s", gotBody)
}

func TestSendHighPriority(t *testing.T) {
	var gotPriority string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPriority = r.Header.Get("Priority")
	}))
	defer server.Close()

	assert.True(t, New(server.URL, "podcasts").Send("Podcast failed: Demo", "tts: boom", "high", "warning,podcast"))
	assert.Equal(t, "high", gotPriority)
}

func TestSendUnconfiguredTopic(t *testing.T) {
	assert.False(t, New("https://ntfy.sh", "").Send("title", "message", "", ""))
}

func TestSendServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	assert.False(t, New(server.URL, "podcasts").Send("title", "message", "", ""))
}

func TestSendUnreachableServer(t *testing.T) {
	assert.False(t, New("http://127.0.0.1:1", "podcasts").Send("title", "message", "", ""))
}
