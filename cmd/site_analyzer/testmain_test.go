package main

import (
	"os"
	"testing"
)

// TestMain drops the Gemini key inherited from the shell or a sourced .env,
// so enhancement tests only ever talk to the stubbed client.
func TestMain(m *testing.M) {
	_ = os.Unsetenv("GEMINI_API_KEY")

	os.Exit(m.Run())
}
