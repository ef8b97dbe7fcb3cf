// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/forgesuite/forged/wire"
)

// NotificationType represents the type of a notification message.
type NotificationType int

// NotificationCallback is used for a caller to provide a callback for
// notifications about various transaction pool events.
type NotificationCallback func(*Notification)

// Constants for the type of a notification message.
const (
	// NTTxVerified indicates a transaction passed the verification
	// pipeline.  Subscribers forward it to peers when the attached
	// broadcast flag is set.
	NTTxVerified NotificationType = iota

	// NTTxRemoved indicates a transaction left the staged queues.
	NTTxRemoved
)

// notificationTypeStrings is a map of notification types back to their
// constant names for pretty printing.
var notificationTypeStrings = map[NotificationType]string{
	NTTxVerified: "NTTxVerified",
	NTTxRemoved:  "NTTxRemoved",
}

// String returns the NotificationType in human-readable form.
func (n NotificationType) String() string {
	if s, ok := notificationTypeStrings[n]; ok {
		return s
	}
	return "Unknown NotificationType"
}

// NTTxVerifiedData is the data attached to an NTTxVerified notification.
type NTTxVerifiedData struct {
	Tx        *wire.Transaction
	Broadcast bool
}

// Notification defines a notification that is sent to the caller via the
// callback function provided during the call to Subscribe and consists of a
// notification type as well as associated data that depends on the type as
// follows:
//   - NTTxVerified: *NTTxVerifiedData
//   - NTTxRemoved:  string (the transaction id)
type Notification struct {
	Type NotificationType
	Data interface{}
}

// Subscribe registers a callback for pool event notifications.
func (mp *TxPool) Subscribe(callback NotificationCallback) {
	mp.notificationsLock.Lock()
	mp.notifications = append(mp.notifications, callback)
	mp.notificationsLock.Unlock()
}

// sendNotification generates and sends a notification to all subscribers.
// Callbacks run synchronously on the caller's goroutine.
func (mp *TxPool) sendNotification(typ NotificationType, data interface{}) {
	n := Notification{Type: typ, Data: data}
	mp.notificationsLock.RLock()
	for _, callback := range mp.notifications {
		callback(&n)
	}
	mp.notificationsLock.RUnlock()
}
