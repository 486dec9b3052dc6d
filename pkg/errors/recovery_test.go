package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func nan() float64 { return math.NaN() }

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		panic("test panic message")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}

	if panicErr.Operation != "TestOperation" {
		t.Errorf("Expected operation 'TestOperation', got '%s'", panicErr.Operation)
	}
	if panicErr.PanicValue != "test panic message" {
		t.Errorf("Expected panic value 'test panic message', got '%v'", panicErr.PanicValue)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}

	expectedMsg := "panic in TestOperation: test panic message"
	if panicErr.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, panicErr.Error())
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic with existing error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "panic in TestOperation") {
		t.Errorf("Error message should contain panic info: %s", errMsg)
	}
	if !strings.Contains(errMsg, "original error") {
		t.Errorf("Error message should contain original error: %s", errMsg)
	}
	if !Is(err, originalErr) {
		t.Error("Should be able to identify original error with Is")
	}
}

func TestSafeExecute(t *testing.T) {
	functionErr := fmt.Errorf("function error")

	tests := []struct {
		name      string
		fn        func() error
		wantNil   bool
		wantPanic bool
		wantErr   error
	}{
		{name: "success", fn: func() error { return nil }, wantNil: true},
		{name: "function error", fn: func() error { return functionErr }, wantErr: functionErr},
		{name: "panic", fn: func() error { panic("index out of range") }, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute("sweep cell", tt.fn)

			if tt.wantNil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if tt.wantErr != nil && err != tt.wantErr {
				t.Fatalf("expected original error, got %v", err)
			}
			if tt.wantPanic {
				var panicErr *PanicError
				if !As(err, &panicErr) {
					t.Fatalf("expected PanicError, got %T", err)
				}
				if panicErr.Operation != "sweep cell" {
					t.Errorf("Operation = %q", panicErr.Operation)
				}
			}
		})
	}
}

func TestPanicError_String(t *testing.T) {
	panicErr := NewPanicError("Engine.Run", "boom")
	s := panicErr.String()
	if !strings.Contains(s, "Stack trace:") || !strings.Contains(s, "boom") {
		t.Errorf("String() missing details: %s", s)
	}
}
