// Package storage writes the run artifacts kept next to the README: the
// rendered widget backup and the optional JSON run report.
//
// Nothing is read back between runs. Each file is fully replaced on every
// run, and the output directory is created when missing.
package storage
