package controller

import (
	"os"
	"testing"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	go func() {
		for range logger.Messages {
		}
	}()
	os.Exit(m.Run())
}
