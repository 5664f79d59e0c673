//go:build integration

package eventintegrationtests

import (
	"log"
	"os"
	"testing"

	"github.com/Monthly-Cup-Club/cup-scorer/integration_tests/testutils"
)

// TestMain tears the shared containers down once every test has run.
func TestMain(m *testing.M) {
	exitCode := m.Run()
	testutils.TeardownGlobalEnv()
	log.Printf("TestMain: finished with exit code: %d", exitCode)
	os.Exit(exitCode)
}
