package filters

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
)

func msg(chatID int64, chatType string, from bool) *telego.Message {
	m := &telego.Message{Chat: telego.Chat{ID: chatID, Type: chatType}}
	if from {
		m.From = &telego.User{ID: 7}
	}
	return m
}

func TestChatFilter(t *testing.T) {
	open := NewChatFilter(nil)
	assert.True(t, open.CheckAccess(msg(7, telego.ChatTypePrivate, true)))
	assert.True(t, open.CheckAccess(msg(-100, telego.ChatTypeSupergroup, true)))
	assert.False(t, open.CheckAccess(msg(-100, telego.ChatTypeChannel, true)))
	assert.False(t, open.CheckAccess(msg(-100, telego.ChatTypeGroup, false)))
	assert.False(t, open.CheckAccess(nil))

	limited := NewChatFilter([]int64{-100})
	assert.True(t, limited.CheckAccess(msg(-100, telego.ChatTypeGroup, true)))
	assert.False(t, limited.CheckAccess(msg(-200, telego.ChatTypeSupergroup, true)))
	assert.True(t, limited.CheckAccess(msg(7, telego.ChatTypePrivate, true)))
}
