package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-perf/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultConfigIsValid() {
	config := DefaultConfig()

	suite.NoError(config.Validate())
	suite.Equal(filepath.Join("data", "performance.db"), config.DatabasePath)
	suite.Equal(20, config.Decay.RecentWindow)
	suite.Equal(50, config.Decay.BaselineWindow)
	suite.Equal(-0.15, config.Decay.WinRateDropThreshold)
}

func (suite *ConfigTestSuite) TestLoadConfigAppliesOverrides() {
	path := filepath.Join(suite.T().TempDir(), "perf.yaml")
	content := `
database_path: /tmp/custom.db
decay:
  recent_window: 10
  baseline_window: 30
  win_rate_drop_threshold: -0.2
`
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	suite.Require().NoError(err)

	suite.Equal("/tmp/custom.db", config.DatabasePath)
	suite.Equal(10, config.Decay.RecentWindow)
	suite.Equal(30, config.Decay.BaselineWindow)
	suite.Equal(-0.2, config.Decay.WinRateDropThreshold)
}

func (suite *ConfigTestSuite) TestLoadConfigKeepsDefaultsForUnsetFields() {
	path := filepath.Join(suite.T().TempDir(), "perf.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("database_path: /tmp/other.db\n"), 0644))

	config, err := LoadConfig(path)
	suite.Require().NoError(err)

	suite.Equal("/tmp/other.db", config.DatabasePath)
	suite.Equal(20, config.Decay.RecentWindow)
}

func (suite *ConfigTestSuite) TestLoadConfigRejectsInvalidThreshold() {
	path := filepath.Join(suite.T().TempDir(), "perf.yaml")
	content := `
database_path: /tmp/custom.db
decay:
  recent_window: 10
  baseline_window: 30
  win_rate_drop_threshold: 0.2
`
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	_, err := LoadConfig(path)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestLoadConfigMissingFile() {
	_, err := LoadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
