// Package pipeline wires the loader, aggregator, revenue model, diagnostics
// and exporters into a single run over one weekly export.
package pipeline
