// Package schema declares the payload shapes carried by sync envelopes.
// Each known event type maps to one typed payload; unknown event types
// fall back to an opaque raw variant so the client never rejects
// application data it does not understand.
package schema

// SchemaVersion is the current event payload schema version.
const SchemaVersion uint16 = 1
