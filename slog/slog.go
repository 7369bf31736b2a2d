// Package slog provides logging decorators for modcat services.
//
// Decorators are wired in only when debug output is requested, so every
// operation logs at Info level on the logger it is given.
package slog
