// Package logging provides JSON logging to a rotating file, optionally
// mirrored to stderr, for the query engine and its surrounding services.
// The picky CLI always writes its log to ~/.picky/logs/ at info level;
// with --debug it logs at debug level and also copies every record to
// stderr.
package logging
