// Package services holds request-scoped context helpers shared by the CLI,
// the workflow manager, and the logging package.
//
// Commands stamp a correlation identifier, the active show code, and the
// operation name onto the context once; log lines emitted further down pick
// them up through logging.WithContext.
package services
