// Package pty adapts the platform's pseudo-terminal capability behind
// two narrow interfaces: a Controller carrying the byte stream and a
// Child carrying the exit fact.
//
// A single Start call allocates the terminal pair, spawns the command
// attached to the subordinate side as its controlling terminal, and
// releases this process's copy of the subordinate descriptor. Holding
// that descriptor open past the spawn would mask the end-of-stream the
// controller sees once the child is gone, so no API here exposes it.
//
// Failures split into two kinds the caller treats differently:
// ErrAllocation (no terminal pair to be had) and ErrSpawn (the pair
// exists but the command would not start).
package pty
