package testutil

import "testing"

// Given, When, and Then label the stages of a consent lifecycle scenario —
// seed the catalogs, capture a grant, observe the derived surfaces — as
// nested subtests, so `go test -v` reads like the scenario itself.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
