package notify

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	dbusDest      = "org.freedesktop.Notifications"
	dbusPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	dbusIface     = "org.freedesktop.Notifications"
	dbusNotify    = dbusIface + ".Notify"
	signalAction  = dbusIface + ".ActionInvoked"
	signalClosed  = dbusIface + ".NotificationClosed"
	ackActionKey  = "ack"
	ackActionText = "Acknowledge"
	// urgency hint values of org.freedesktop.Notifications
	urgencyNormal   = byte(1)
	urgencyCritical = byte(2)
)

// caller is the part of dbus.BusObject the notification sinks use.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// signaler is the part of *dbus.Conn the prompt needs to wait for the user.
type signaler interface {
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
}

// DBus talks to the freedesktop notification service on the session bus.
// It implements both Sink (a normal notification) and Prompter (a critical
// notification with an Acknowledge action that blocks until handled).
type DBus struct {
	conn *dbus.Conn
	obj  caller
	sig  signaler
	icon string
}

// NewDBus connects to the session bus. It fails when no session bus or
// notification service is available.
func NewDBus(icon string) (*DBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("error: cannot connect to session bus: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusPath),
		dbus.WithMatchInterface(dbusIface),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error: cannot subscribe to notification signals: %w", err)
	}
	return &DBus{
		conn: conn,
		obj:  conn.Object(dbusDest, dbusPath),
		sig:  conn,
		icon: icon,
	}, nil
}

func (d *DBus) send(ctx context.Context, n Notification, actions []string, urgency byte, timeout int32) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}
	call := d.obj.CallWithContext(ctx, dbusNotify, 0,
		n.Source, uint32(0), d.icon, n.Title, n.Body, actions, hints, timeout)
	if call.Err != nil {
		return 0, fmt.Errorf("error: desktop notification failed: %w", call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("error: desktop notification returned no id: %w", err)
	}
	return id, nil
}

// Notify shows a passive notification with the server's default timeout.
func (d *DBus) Notify(ctx context.Context, n Notification) error {
	_, err := d.send(ctx, n, []string{}, urgencyNormal, -1)
	return err
}

// Prompt shows a critical notification that does not expire and waits until
// the user acknowledges or closes it.
func (d *DBus) Prompt(ctx context.Context, n Notification) error {
	ch := make(chan *dbus.Signal, 16)
	d.sig.Signal(ch)
	defer d.sig.RemoveSignal(ch)

	id, err := d.send(ctx, n, []string{ackActionKey, ackActionText}, urgencyCritical, 0)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-ch:
			if !ok {
				return fmt.Errorf("error: session bus closed while waiting for acknowledgment")
			}
			if matchesNotification(s, id) {
				return nil
			}
		}
	}
}

// matchesNotification reports whether s ends the prompt with id.
func matchesNotification(s *dbus.Signal, id uint32) bool {
	if s == nil || (s.Name != signalAction && s.Name != signalClosed) || len(s.Body) == 0 {
		return false
	}
	got, ok := s.Body[0].(uint32)
	return ok && got == id
}

// Close releases the bus connection.
func (d *DBus) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

var (
	_ Sink     = (*DBus)(nil)
	_ Prompter = (*DBus)(nil)
)
