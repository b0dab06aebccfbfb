// Package events defines the values published on the reporting event bus.
//
// Available event types:
//   - ClientCreated: the reporting client was constructed and bound
//   - Captured: an exception or message was handed to the sink
//   - Skipped: a capture request was dropped before reaching the sink
package events
