package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Notify(context.Background(), Success("Note saved"))
	w.Notify(context.Background(), Error("Failed to save note"))

	assert.Equal(t, "[success] Note saved\n[error] Failed to save note\n", buf.String())
}

func TestMulti(t *testing.T) {
	var got []Notification
	rec := NotifierFunc(func(_ context.Context, n Notification) { got = append(got, n) })

	Multi(rec, nil, Discard, rec).Notify(context.Background(), Warning("offline"))

	assert.Equal(t, []Notification{Warning("offline"), Warning("offline")}, got)
}
