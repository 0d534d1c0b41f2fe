// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package preempt implements a preemptive-ownership concurrency primitive
// for cooperative, single-executor task graphs, of the kind a robotics
// control stack uses to let newly scheduled behaviors steal hardware
// resources (motors, sensors, actuators) away from whatever is currently
// running without blocking.
//
// A classic mutex makes a newcomer wait for an incumbent to release a
// resource voluntarily. That is the wrong shape here: an incumbent
// controlling, say, a drive motor may run indefinitely (a "hold this
// heading" behavior has no natural end), and a higher-priority behavior
// (an e-stop, an obstacle-avoidance maneuver) cannot afford to wait for it
// to finish. Instead, a newcomer simply installs itself as the resource's
// new holder; the incumbent discovers, the next time it is examined, that
// it no longer holds what it needs, and terminates with a preempted
// outcome. Nobody blocks.
//
// The two pieces:
//
//   - [Cell] is a single-slot revocable container: a value plus the
//     identity of whichever task most recently claimed it. Installing a
//     new holder always succeeds immediately, evicting whoever was there.
//
//   - [Task] binds an inner [Step] function to one or more cells (via
//     [Wrap1], [Wrap2], [Wrap3], [Wrap4]) and, each time an executor calls
//     [Examine], atomically refreshes its claim on every required cell,
//     detects whether it has been stolen from since its last examination,
//     and either advances the inner step or reports [StatusPreempted].
//
// Ownership is checked only at these examination boundaries, not on every
// access to a cell's value: while a single [Step] call is running, no other
// task on the same executor can possibly install itself (the executor is
// assumed single-threaded and cooperative, per [Examine]'s doc comment), so
// the borrow handed out via [Borrow] is valid for the full duration of that
// call.
//
// This package has no notion of a scheduler. It assumes only that whatever
// drives it examines one task at a time and never the same task instance
// from two goroutines at once; see [Examine] and [Waker]. It performs no
// dynamic allocation, locking, or blocking on any of its hot paths
// ([Cell.Install], [Cell.Release], [Examine]).
package preempt
