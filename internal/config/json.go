package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/corelink-tools/symsync/models"
)

type structuredJSONConfig struct {
	Connection struct {
		Host        string `json:"host"`
		Type        string `json:"connection_type"`
		AppPort     int    `json:"sym_app_port"`
		SSHPort     int    `json:"ssh_port"`
		SSHUsername string `json:"ssh_username"`
		SSHPassword string `json:"ssh_password"`
	} `json:"connection,omitempty"`

	Platform struct {
		SymNumber    string `json:"sym_number"`
		UserNumber   string `json:"user_number"`
		UserPassword string `json:"user_password"`
		APIKey       string `json:"api_key"`
	} `json:"platform,omitempty"`

	Sync struct {
		DirectoryType  string   `json:"directory_type"`
		Mode           string   `json:"sync_mode"`
		DryRun         bool     `json:"dry_run"`
		Debug          bool     `json:"debug"`
		LocalDir       string   `json:"local_dir"`
		InstallList    []string `json:"install_list"`
		ValidateIgnore []string `json:"validate_ignore"`
	} `json:"sync,omitempty"`

	License struct {
		StagePrefix string   `json:"stage_prefix"`
		Sandbox     bool     `json:"sandbox"`
		Timeout     Duration `json:"timeout"`
	} `json:"license,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg structuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Connection: Connection{
			Host:        jsonCfg.Connection.Host,
			Type:        models.ConnectionType(jsonCfg.Connection.Type),
			AppPort:     jsonCfg.Connection.AppPort,
			SSHPort:     jsonCfg.Connection.SSHPort,
			SSHUsername: jsonCfg.Connection.SSHUsername,
			SSHPassword: jsonCfg.Connection.SSHPassword,
		},
		Platform: Platform{
			SymNumber:    jsonCfg.Platform.SymNumber,
			UserNumber:   jsonCfg.Platform.UserNumber,
			UserPassword: jsonCfg.Platform.UserPassword,
			APIKey:       jsonCfg.Platform.APIKey,
		},
		Sync: Sync{
			DirectoryType:  models.DirectoryType(jsonCfg.Sync.DirectoryType),
			Mode:           models.SyncMode(jsonCfg.Sync.Mode),
			DryRun:         jsonCfg.Sync.DryRun,
			Debug:          jsonCfg.Sync.Debug,
			LocalDir:       jsonCfg.Sync.LocalDir,
			InstallList:    jsonCfg.Sync.InstallList,
			ValidateIgnore: jsonCfg.Sync.ValidateIgnore,
		},
		License: License{
			StagePrefix: jsonCfg.License.StagePrefix,
			Sandbox:     jsonCfg.License.Sandbox,
			Timeout:     time.Duration(jsonCfg.License.Timeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
