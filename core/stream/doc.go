// Package stream pushes job progress events to connected websocket
// clients. It is the optional UI-notification boundary of the job
// scheduler; processing never depends on a subscriber being present.
package stream
