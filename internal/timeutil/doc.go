// Package timeutil provides Timer, a cancellable replacement for time.AfterFunc that tracks
// its own state and exposes it through TimerSnapshot.
//
// A Timer guarantees that its callback runs at most once and never after a successful Stop:
// Stop and expiration are serialized, so exactly one of them wins.
//
// Basic usage:
//
//	timer := timeutil.AfterFunc(30*time.Second, func() {
//	    log.Println("registration timed out")
//	})
//	// ...
//	if timer.Stop() {
//	    log.Println("stopped before expiration")
//	}
//
// All timer operations are thread-safe and can be called concurrently from multiple goroutines.
package timeutil
