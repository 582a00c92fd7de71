// Package monitor follows a sending job from outside the server: a small
// HTTP client for the job endpoints and a poller that patches a View every
// few seconds.
//
// Polls are not sequenced. A fetch still in flight when the next tick fires
// is neither awaited nor cancelled, so whichever response resolves last is
// what the view shows. All view and chart mutation goes through one mutex.
package monitor
