package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip sets m on one response and replays its cookie on a new request.
func roundTrip(t *testing.T, set, get *Store, m Message) (Message, bool, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, set.Set(w, m))

	r := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	out := httptest.NewRecorder()
	got, ok := get.Pop(out, r)
	return got, ok, out
}

func TestSetAndPop(t *testing.T) {
	store, err := NewStore("test-secret")
	require.NoError(t, err)

	want := Message{Errors: []string{"Body can't be blank", "댓글이 정상적으로 삭제되지 않았습니다"}}
	got, ok, w := roundTrip(t, store, store, want)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(want, got))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0, "popping expires the cookie")
}

func TestPopWithoutCookie(t *testing.T) {
	store, err := NewStore("")
	require.NoError(t, err)

	_, ok := store.Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestForeignSecretIsRejected(t *testing.T) {
	a, err := NewStore("")
	require.NoError(t, err)
	b, err := NewStore("")
	require.NoError(t, err)

	_, ok, _ := roundTrip(t, a, b, Message{Notice: "Post was successfully created."})
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	store, err := NewStore("k")
	require.NoError(t, err)
	valid, err := store.encode(Message{Notice: "hi"})
	require.NoError(t, err)
	payload, sig, _ := strings.Cut(valid, ".")

	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"valid", valid, true},
		{"no separator", payload, false},
		{"bad base64", "%%%." + sig, false},
		{"tampered payload", "e30." + sig, false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.decode(tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrBadCookie)
			}
		})
	}
}

func TestEmptyMessage(t *testing.T) {
	assert.True(t, Message{}.Empty())
	assert.False(t, Message{Notice: "x"}.Empty())
}
