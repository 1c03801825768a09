package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/websocket"
)

func TestSendMessageAndThread(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.messages.SendMessage(f.ctx, alice.ID, dto.SendMessageRequest{ReceiverID: bob.ID, Content: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = f.messages.SendMessage(f.ctx, alice.ID, dto.SendMessageRequest{ReceiverID: "missing", Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	first, err := f.messages.SendMessage(f.ctx, alice.ID, dto.SendMessageRequest{ReceiverID: bob.ID, Content: "hi bob"})
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Sender.Name)
	assert.Equal(t, "bob", first.Receiver.Name)
	assert.False(t, first.Read)

	ev := f.notifier.last()
	assert.Equal(t, websocket.UserRoom(bob.ID), ev.room)
	assert.Equal(t, websocket.EventMessageNew, ev.eventType)

	f.clock.Advance(time.Minute)
	_, err = f.messages.SendMessage(f.ctx, bob.ID, dto.SendMessageRequest{ReceiverID: alice.ID, Content: "hi alice"})
	require.NoError(t, err)

	thread, err := f.messages.GetMessages(f.ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "hi bob", thread[0].Content)
	assert.Equal(t, "hi alice", thread[1].Content)
}

func TestConversations(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")

	send := func(from, to, content string) {
		t.Helper()
		_, err := f.messages.SendMessage(f.ctx, from, dto.SendMessageRequest{ReceiverID: to, Content: content})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}
	send(bob.ID, alice.ID, "one")
	send(bob.ID, alice.ID, "two")
	send(alice.ID, carol.ID, "three")
	send(alice.ID, bob.ID, "four")

	convs, err := f.messages.GetConversations(f.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "bob", convs[0].User.Name)
	assert.Equal(t, "four", convs[0].LastMessage.Content)
	assert.Equal(t, 2, convs[0].UnreadCount)

	assert.Equal(t, "carol", convs[1].User.Name)
	assert.Equal(t, 0, convs[1].UnreadCount)

	count, err := f.messages.UnreadCount(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMarkReadAndDelete(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	msg, err := f.messages.SendMessage(f.ctx, alice.ID, dto.SendMessageRequest{ReceiverID: bob.ID, Content: "hi"})
	require.NoError(t, err)

	_, err = f.messages.MarkRead(f.ctx, alice.ID, msg.ID)
	assert.ErrorIs(t, err, authz.ErrNotMessageReceiver)

	readAt := f.clock.Now()
	read, err := f.messages.MarkRead(f.ctx, bob.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.ReadAt)
	assert.True(t, readAt.Equal(*read.ReadAt))
	assert.Equal(t, websocket.EventMessageRead, f.notifier.last().eventType)
	assert.Equal(t, websocket.UserRoom(alice.ID), f.notifier.last().room)

	f.clock.Advance(time.Hour)
	again, err := f.messages.MarkRead(f.ctx, bob.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, readAt.Equal(*again.ReadAt))

	count, err := f.messages.UnreadCount(f.ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, f.messages.DeleteMessage(f.ctx, bob.ID, msg.ID), authz.ErrNotMessageSender)
	require.NoError(t, f.messages.DeleteMessage(f.ctx, alice.ID, msg.ID))
	assert.Equal(t, websocket.EventMessageDelete, f.notifier.last().eventType)
	assert.ErrorIs(t, f.messages.DeleteMessage(f.ctx, alice.ID, msg.ID), apperrors.ErrMessageNotFound)
}
