// Package connectors finds source files for batch ingest. The filesystem
// connector expands directories into the files a normaliser can read.
package connectors
