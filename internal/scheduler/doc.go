// Package scheduler drives the due-notification sweep on a fixed cadence.
//
// A Driver runs ticks synchronously on a single goroutine, so two ticks never
// overlap. Manual ticks requested through TickNow are skipped while a tick is
// already in flight. Cancelling the Run context stops the driver after the
// in-flight tick completes; the driver never stops the host process.
package scheduler
