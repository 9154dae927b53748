// Package queue provides a generic blocking hand-off queue built on the
// monitor pattern: a mutex guards the stored values and a condition variable
// signals that the queue became non-empty.
//
// Send never blocks on consumers. It pays an optional simulated latency,
// appends the value and wakes exactly one waiting receiver. Receive blocks
// until a value is available and removes it, either oldest-first (FIFO) or
// newest-first (LIFO) depending on the configured Order.
package queue
