package service

import (
	"os"
	"testing"

	"nayaplay/config"
)

func TestMain(m *testing.M) {
	config.SetTestConfig(config.NewTestConfig())
	code := m.Run()
	config.ResetConfig()
	os.Exit(code)
}
