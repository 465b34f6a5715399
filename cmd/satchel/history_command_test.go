package main

import "testing"

func TestHistoryEmptyAndClear(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCLI(t, cfgPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No history entries")

	out, err = runCLI(t, cfgPath, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 0 history entries")
}
