// Package session supervises one pseudo-terminal session from spawn to
// exit-status translation.
//
// A session attaches a child process to a fresh pty, switches the local
// terminal to raw passthrough, and relays bytes in both directions until
// the child exits. Child exit is the one terminal event: local input
// running dry never ends a session, it only goes quiet. Teardown is
// deterministic, with bounded waits on both relays, and the local
// terminal is restored exactly once before the exit status is reported.
//
// The supervisor walks four states: initializing, running, draining,
// terminated. Draining exists because child exit races the last of its
// output; closing the controller forces the output relay to observe end
// of stream, and the input relay is poked out of its blocking read.
package session
