// Package types provides shared type definitions used across the pantheon packages.
//
// This package contains the fundamental domain types (Figure, Contribution,
// Alias, Candidate) and the identifiers (FigureID, SourceID) that are
// referenced by the store, the resolution passes, and the aggregator, to
// avoid import cycles while maintaining type safety.
//
//nolint:revive // Package name 'types' is appropriate for common type definitions
package types
