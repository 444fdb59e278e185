// Package locker provides non-blocking exclusive leases used to serialize
// work per key across instances (Redis) or within one process (Memory).
package locker
