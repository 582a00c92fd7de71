// Package tracking receives the requests generated by instrumented emails:
// the open pixel, click redirects and the unsubscribe link.
//
// Handlers hand each event to a Sink and answer immediately. The direct
// sink records the event in-process; the SQS publisher queues it for a
// Consumer running elsewhere. Either way a Processor does the recording:
// it stores the event, counts the first open or click per recipient on the
// job, and suppresses unsubscribing addresses.
package tracking
