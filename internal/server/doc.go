// Package server implements the HTTP surface using Echo framework.
//
// Routes: heartbeat ingest (/ping), presence reads (/online, /stats, /),
// live feed (/ws/online), and observability (/health/*, /metrics).
// Each handler performs exactly one registry call; errors are converted
// to JSON responses by the errors middleware.
package server
