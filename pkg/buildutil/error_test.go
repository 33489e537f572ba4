package buildutil

import (
	"errors"
	"testing"
)

func TestNewCarriesKindAndMessage(t *testing.T) {
	err := New(InvalidParameter, "boom")
	if err.Kind != InvalidParameter {
		t.Errorf("Kind = %v, want InvalidParameter", err.Kind)
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "boom")
	}
}

func TestErrorSatisfiesStdlibErrorInterface(t *testing.T) {
	var err error = New(InvalidMesh, "bad mesh")
	if err.Error() != "bad mesh" {
		t.Errorf("Error() = %q, want %q", err.Error(), "bad mesh")
	}
	var target *Error
	if !errors.As(err, &target) {
		t.Fatal("errors.As should recover the concrete *Error")
	}
	if target.Kind != InvalidMesh {
		t.Errorf("recovered Kind = %v, want InvalidMesh", target.Kind)
	}
}
