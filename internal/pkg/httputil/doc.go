// Package httputil provides shared HTTP response helpers: a standard JSON
// error envelope and status-code shorthands used by every API handler.
package httputil
