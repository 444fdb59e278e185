// Package messaging is a small broker-agnostic publish/consume layer over
// NATS, NSQ, Kafka, Google Pub/Sub and an in-process Memory broker.
//
// Select a backend with NewFromDriver. Consume blocks, so callers run it on a
// goroutine and cancel the context to stop.
package messaging
