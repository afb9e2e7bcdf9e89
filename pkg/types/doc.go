// Package types defines the record model, table schemas, configuration, and
// error taxonomy for the localbase storage system.
package types
