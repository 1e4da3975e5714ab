// Package realtime holds the in-process state behind live chat: who is
// online, which connections watch which conversation, and the fan-out that
// pushes committed changes to them over websockets.
//
// Everything here is owned by a single process. Presence, Rooms and
// Dispatcher are plain objects created at startup and injected where they
// are needed; there are no package-level registries.
package realtime
