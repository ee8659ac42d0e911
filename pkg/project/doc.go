// Package project locates and loads the migration files a diagram run
// consumes. A project is a directory tree of ordered .sql migrations;
// collecting it yields the file list in ascending path order, and
// building it replays every file into a frozen schema snapshot.
//
// Failures here are collaborator failures and abort the run: missing
// directories and unreadable files are fatal, unlike statement-level
// anomalies, which the snapshot records as warnings and skips.
package project
