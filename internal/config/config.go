package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var phrasesYAML []byte

type Config struct {
	Kiosk   KioskConfig
	Encoder EncoderConfig
	Voice   VoiceConfig
	Phrases PhrasesConfig
}

type KioskConfig struct {
	ImagesPath     string  // directory with enrollment images (one face per file)
	LedgerPath     string  // attendance CSV file
	AdminPassword  string  // secret for clear_logs and shutdown
	MatchTolerance float64 // max cosine distance to accept a roster match
	MaxFrameSize   int     // longest frame side after downscale, in pixels
}

type EncoderConfig struct {
	URL   string // defaults to http://localhost:8000
	Model string // model name, for reference only
}

type VoiceConfig struct {
	URL      string        // TTS endpoint; empty disables voice feedback
	Cooldown time.Duration // per-name announcement suppression window
}

type PhrasesConfig struct {
	Phrases map[string]string `yaml:"phrases"`
}

// Phrase returns the spoken phrase template for a key with the {name}
// placeholder substituted. Unknown keys yield the name alone.
func (p *PhrasesConfig) Phrase(key, name string) string {
	tmpl, ok := p.Phrases[key]
	if !ok {
		return name
	}
	return strings.ReplaceAll(tmpl, "{name}", name)
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envDuration reads an environment variable as a Go duration ("30s", "2m").
// Returns the default value if the env var is unset, empty, or invalid.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var phrases PhrasesConfig
	if err := yaml.Unmarshal(phrasesYAML, &phrases); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded phrases.yaml: " + err.Error())
	}

	return &Config{
		Kiosk: KioskConfig{
			ImagesPath:     envString("KIOSK_IMAGES_PATH", "./Images"),
			LedgerPath:     envString("KIOSK_LEDGER_PATH", "Attendance.csv"),
			AdminPassword:  envString("KIOSK_ADMIN_PASSWORD", "admin123"),
			MatchTolerance: envFloat("KIOSK_MATCH_TOLERANCE", 0.55),
			MaxFrameSize:   envInt("KIOSK_MAX_FRAME_SIZE", 480),
		},
		Encoder: EncoderConfig{
			URL:   os.Getenv("ENCODER_URL"),
			Model: os.Getenv("ENCODER_MODEL"),
		},
		Voice: VoiceConfig{
			URL:      os.Getenv("VOICE_URL"),
			Cooldown: envDuration("VOICE_COOLDOWN", 30*time.Second),
		},
		Phrases: phrases,
	}
}
