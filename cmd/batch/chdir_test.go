package batch

import (
	"os"
	"testing"
)

// testChdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (equivalent of Go 1.24's t.Chdir).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
