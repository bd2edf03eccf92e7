// handler/main_test.go
package handler

import (
	"os"
	"testing"
	"user-management-api/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error", "text")
	os.Exit(m.Run())
}
