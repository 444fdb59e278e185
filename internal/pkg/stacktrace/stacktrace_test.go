package stacktrace

import (
	"slices"
	"testing"
)

func TestInternalPaths(t *testing.T) {
	// Arrange
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/otcgate/internal/verification/usecase.(*Usecase).RequestCode(...)
	/app/internal/verification/usecase/request_code.go:51 +0x1a
net/http.HandlerFunc.ServeHTTP(...)
	/usr/local/go/src/net/http/server.go:2294 +0x29
`)

	// Act
	got := InternalPaths(stack)

	// Assert
	want := []string{"internal/verification/usecase/request_code.go:51"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
