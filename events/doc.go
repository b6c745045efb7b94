// Package events defines the marketplace's fire-and-forget notification
// stream. Every state-changing operation emits one or more typed events;
// sinks consume them for indexing, logging, and persistence. The engine
// never reads events back, keeping the stream strictly downstream.
package events
