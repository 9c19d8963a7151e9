package services

import (
	"errors"
	"testing"
	"time"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSkipsOptedOutRecipient(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 1, BrowserNotifications: false})
	notifier := NewNotifier(notifications, users)

	created, err := notifier.Create(NotificationSpec{
		RecipientID: 1,
		Type:        models.NotifAdminMessage,
		Title:       "Hello",
	})
	require.NoError(t, err, "opt-out is a no-op, not an error")
	assert.Nil(t, created)
	assert.Empty(t, notifications.all())
}

func TestCreateDefaultsPriorityToMedium(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 1, BrowserNotifications: true})
	notifier := NewNotifier(notifications, users)

	created, err := notifier.Create(NotificationSpec{
		RecipientID: 1,
		Type:        models.NotifAdminMessage,
		Title:       "Hello",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.False(t, created.IsRead)
}

func TestCreateUnknownRecipient(t *testing.T) {
	notifier := NewNotifier(newFakeNotificationRepo(), newFakeUserRepo())

	_, err := notifier.Create(NotificationSpec{RecipientID: 99, Type: models.NotifAdminMessage})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestAnnounceFansOutOneRowPerUser(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(
		&models.User{ID: 1, BrowserNotifications: true},
		&models.User{ID: 2, BrowserNotifications: false},
		&models.User{ID: 3, BrowserNotifications: true},
	)
	notifier := NewNotifier(notifications, users)

	sent, err := notifier.Announce("Maintenance window", "Down Saturday 02:00 UTC")
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	rows := notifications.all()
	require.Len(t, rows, 3)
	recipients := map[uint]bool{}
	for _, row := range rows {
		recipients[row.RecipientID] = true
		assert.Equal(t, models.NotifAdminMessage, row.Type)
		assert.Equal(t, "Maintenance window", row.Title)
		assert.Equal(t, models.PriorityMedium, row.Priority)
	}
	assert.Len(t, recipients, 3, "each user gets an independent row")
}

func TestMarkReadIsIdempotent(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 1, BrowserNotifications: true})
	notifier := NewNotifier(notifications, users)

	created, err := notifier.Create(NotificationSpec{RecipientID: 1, Type: models.NotifAdminMessage})
	require.NoError(t, err)

	firstRead := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	notifier.now = func() time.Time { return firstRead }
	require.NoError(t, notifier.MarkRead(created.ID))

	notifier.now = func() time.Time { return firstRead.Add(48 * time.Hour) }
	require.NoError(t, notifier.MarkRead(created.ID))

	stored, err := notifications.GetByID(created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
	require.NotNil(t, stored.ReadAt)
	assert.Equal(t, firstRead, *stored.ReadAt, "re-reading must not move the read timestamp")
}

func TestMarkReadMissingNotification(t *testing.T) {
	notifier := NewNotifier(newFakeNotificationRepo(), newFakeUserRepo())

	err := notifier.MarkRead(99)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestMarkAllReadReportsChangedRows(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 1, BrowserNotifications: true})
	notifier := NewNotifier(notifications, users)

	for i := 0; i < 3; i++ {
		_, err := notifier.Create(NotificationSpec{RecipientID: 1, Type: models.NotifAdminMessage})
		require.NoError(t, err)
	}

	changed, err := notifier.MarkAllRead(1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, changed)

	changed, err = notifier.MarkAllRead(1)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestSweepDeletesOnlyReadPastRetention(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 1, BrowserNotifications: true})
	notifier := NewNotifier(notifications, users)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	oldRead, err := notifier.Create(NotificationSpec{RecipientID: 1, Type: models.NotifAdminMessage, Title: "old read"})
	require.NoError(t, err)
	recentRead, err := notifier.Create(NotificationSpec{RecipientID: 1, Type: models.NotifAdminMessage, Title: "recent read"})
	require.NoError(t, err)
	unread, err := notifier.Create(NotificationSpec{RecipientID: 1, Type: models.NotifAdminMessage, Title: "unread"})
	require.NoError(t, err)

	notifier.now = func() time.Time { return base }
	require.NoError(t, notifier.MarkRead(oldRead.ID))

	notifier.now = func() time.Time { return base.Add(ReadRetention - time.Hour) }
	require.NoError(t, notifier.MarkRead(recentRead.ID))

	notifier.now = func() time.Time { return base.Add(ReadRetention + time.Hour) }
	deleted, err := notifier.SweepOnce()
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = notifications.GetByID(oldRead.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	_, err = notifications.GetByID(recentRead.ID)
	assert.NoError(t, err)
	_, err = notifications.GetByID(unread.ID)
	assert.NoError(t, err, "unread notifications are retained indefinitely")
}
