package snapcamverify

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
	"time"
)

const (
	defaultADBPath         = "adb"
	defaultPackageName     = "org.codeaurora.snapcam"
	defaultCaptureAction   = "android.media.action.IMAGE_CAPTURE_NOW"
	defaultPictureDir      = "/storage/emulated/0/DCIM/Camera"
	defaultSettleDelay     = 5 * time.Second
	defaultFreshnessWindow = 2 * time.Minute
)

type Config struct {
	ADBPath            string `json:"adb_path,omitempty"`             // default: adb
	Serial             string `json:"serial,omitempty"`               // optional: adb -s target
	PackageName        string `json:"package_name,omitempty"`         // camera app to force-stop
	CaptureAction      string `json:"capture_action,omitempty"`       // intent action that takes the picture
	PictureDir         string `json:"picture_dir,omitempty"`          // where the camera app writes {filename}.jpg
	SettleDelayMs      int    `json:"settle_delay_ms,omitempty"`      // wait after the intent (default: 5000)
	FreshnessWindowSec int    `json:"freshness_window_sec,omitempty"` // max picture age (default: 120)
}

func (cfg *Config) Validate(path string) ([]string, []string, error) {
	if cfg.SettleDelayMs < 0 {
		return nil, nil, fmt.Errorf("%s: settle_delay_ms must not be negative", path)
	}
	if cfg.FreshnessWindowSec < 0 {
		return nil, nil, fmt.Errorf("%s: freshness_window_sec must not be negative", path)
	}
	if cfg.PictureDir != "" && !strings.HasPrefix(cfg.PictureDir, "/") {
		return nil, nil, fmt.Errorf("%s: picture_dir must be an absolute device path", path)
	}
	if strings.ContainsAny(cfg.PackageName, " \t\n") {
		return nil, nil, fmt.Errorf("%s: package_name must not contain whitespace", path)
	}
	if strings.ContainsAny(cfg.CaptureAction, " \t\n") {
		return nil, nil, fmt.Errorf("%s: capture_action must not contain whitespace", path)
	}
	return nil, nil, nil
}

// Settings is the resolved, immutable form of Config. Components receive it
// by value at construction.
type Settings struct {
	ADBPath         string
	Serial          string
	PackageName     string
	CaptureAction   string
	PictureDir      string
	SettleDelay     time.Duration
	FreshnessWindow time.Duration
}

func (cfg *Config) Settings() Settings {
	s := Settings{
		ADBPath:         cfg.ADBPath,
		Serial:          cfg.Serial,
		PackageName:     cfg.PackageName,
		CaptureAction:   cfg.CaptureAction,
		PictureDir:      cfg.PictureDir,
		SettleDelay:     time.Duration(cfg.SettleDelayMs) * time.Millisecond,
		FreshnessWindow: time.Duration(cfg.FreshnessWindowSec) * time.Second,
	}
	if s.ADBPath == "" {
		s.ADBPath = defaultADBPath
	}
	if s.PackageName == "" {
		s.PackageName = defaultPackageName
	}
	if s.CaptureAction == "" {
		s.CaptureAction = defaultCaptureAction
	}
	if s.PictureDir == "" {
		s.PictureDir = defaultPictureDir
	}
	if cfg.SettleDelayMs <= 0 {
		s.SettleDelay = defaultSettleDelay
	}
	if cfg.FreshnessWindowSec <= 0 {
		s.FreshnessWindow = defaultFreshnessWindow
	}
	return s
}

// PicturePath is the device path the camera app writes for filename.
func (s Settings) PicturePath(filename string) string {
	return path.Join(s.PictureDir, filename+".jpg")
}

// LoadConfigFile reads a JSON config with the same attributes the module accepts.
func LoadConfigFile(filePath string) (*Config, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", filePath, err)
	}
	if _, _, err := cfg.Validate(filePath); err != nil {
		return nil, err
	}
	return &cfg, nil
}
