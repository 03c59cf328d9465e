// Package files provides the file operations used to publish reports.
//
// Manager resolves paths against a base directory and writes outputs
// atomically: content goes to a temporary file in the destination
// directory which is renamed into place only after it was fully written.
//
// Example usage:
//
//	manager := files.NewManager(paths.BaseDir, logger)
//	err := manager.WriteAtomic("output.csv", func(w io.Writer) error {
//	    return writeRows(w)
//	})
package files
