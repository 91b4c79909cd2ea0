// Package vt recognizes terminal status queries in a child's output
// stream and answers them on behalf of a terminal that is not there.
//
// Interactive programs probe their terminal before drawing: cursor
// position (CSI 6n), device status (CSI 5n), device attributes (CSI c).
// On a real terminal the hardware answers on the input channel. In a
// headless session nothing would, and well-behaved programs stall
// waiting. The Answerer watches the output stream for exactly those
// probes and injects the canned reply a minimal VT100-class terminal
// would give, toward the child only. The output stream itself is never
// altered, and sequences it does not recognize produce no reply at all.
package vt
