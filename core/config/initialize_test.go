package config

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	discard := log.New(ioutil.Discard, "", 0)

	if _, err := Initialize(tempDir, discard); err != nil {
		t.Fatal(err)
	}

	// Check that the scaffolded config is loadable and valid.
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	assert.Nil(t, cfg.Validate())

	t.Run("OpenRequestLog", func(t *testing.T) {
		fd, err := cfg.OpenRequestLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("ReadRequestLog", func(t *testing.T) {
		fd, err := cfg.OpenRequestLog()
		assert.Nil(t, err)
		fd.Close()

		rd, err := cfg.ReadRequestLog()
		assert.Nil(t, err)
		rd.Close()
	})

	t.Run("RefusesOverwrite", func(t *testing.T) {
		_, err := Initialize(tempDir, discard)
		assert.NotNil(t, err)
	})
}
