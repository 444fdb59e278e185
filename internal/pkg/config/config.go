package config

import (
	"io"
	"time"
)

// Config is the read-only view of the service configuration.
//
// Getters never fail: a missing or unconvertible key yields the zero value of
// the requested type, so callers validate the values they depend on at startup.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string

	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64

	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64

	GetFloat32(key string) float32
	GetFloat64(key string) float64

	// GetSecond, GetMinute, GetHour and GetDay read an integer and scale it to
	// the named unit.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration

	// GetDuration parses Go duration strings such as "90s" or "5m".
	GetDuration(key string) time.Duration

	// GetBinary decodes a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray splits a "<a>,<b>,..." value, trimming blanks and dropping empty items.
	GetArray(key string) []string

	// GetMap parses a "<k1>:<v1>,<k2>:<v2>" value.
	GetMap(key string) map[string]string
}
