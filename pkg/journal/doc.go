// Package journal records translation activity for admin inspection.
//
// Every bridge translation, in both directions, produces one Record:
// which functions and macros were involved, how large the document was,
// how long the call took and whether it succeeded. Records are written
// asynchronously through a Recorder so translation latency never waits
// on storage.
//
// Two storage backends are provided: SQLite for durable single-instance
// deployments and an in-memory store for tests and ephemeral runs. The
// Pruner enforces retention by age and by total record count, either on
// demand or on a cron schedule via the Scheduler.
package journal
