// Package errors provides coded, actionable error messages for the ripple
// CLI and server.
//
// Each error has a unique code (e.g., "E001") that maps to a short message,
// a detailed explanation and an optional fix hint:
//
//   - E001-E099: rendering (unrenderable values, component failures, coercion)
//   - E100-E199: configuration
//   - E200-E299: server
//   - E300-E399: static export
//
// # Usage
//
//	err := errors.New("E101").
//	    WithLocationFromError("ripple.yaml", yamlErr).
//	    Wrap(yamlErr)
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR E101: Invalid configuration
//	//
//	//   ripple.yaml:3
//	//
//	//       2 │ server:
//	//   →   3 │   addr: [
//	//       4 │ render:
package errors
