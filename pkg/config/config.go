package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Env override names. The API key and base URL may come from the
// environment so secrets never have to live in the settings file.
const (
	EnvDBB2APIKey  = "DBB2_API_KEY"
	EnvDBB2BaseURL = "DBB2_BASE_URL"
)

// ExchangeSettings selects quote sources and order behavior.
type ExchangeSettings struct {
	IncludeSources     []string `yaml:"include_sources"`
	TimeInForceSeconds int      `yaml:"time_in_force_seconds"`
	// DemoOnlySources are venues legal/compliance marks simulation-only.
	// Their quotes and every derived record carry demo_only=true.
	DemoOnlySources       []string          `yaml:"demo_only_sources"`
	BaseURLs              map[string]string `yaml:"base_urls"`
	RequestTimeoutSeconds int               `yaml:"request_timeout_seconds"`
}

// DBB2APISettings configures the upstream projections provider.
type DBB2APISettings struct {
	BaseURL             string `yaml:"base_url"`
	TimeoutSeconds      int    `yaml:"timeout_seconds"`
	ProjectionsEndpoint string `yaml:"projections_endpoint"`
	APIKey              string `yaml:"api_key"`
}

// EVThresholds gate which edges become candidate bets.
type EVThresholds struct {
	TakeEdgePct   float64 `yaml:"take_edge_pct"`
	MakeEdgePct   float64 `yaml:"make_edge_pct"`
	MinConfidence float64 `yaml:"min_confidence"`
	MaxBetsPerDay int     `yaml:"max_bets_per_day"`
}

// KellySettings size stakes.
type KellySettings struct {
	Bankroll  float64 `yaml:"bankroll"`
	Fraction  float64 `yaml:"fraction"`
	MinUnits  float64 `yaml:"min_units"`
	MaxUnits  float64 `yaml:"max_units"`
	UseLedger bool    `yaml:"use_ledger"`
}

// RiskOverlaySettings tune the risk adjustment pass.
type RiskOverlaySettings struct {
	Mode                   string          `yaml:"mode"` // observe | enforce
	AlphaConfidence        float64         `yaml:"alpha_confidence"`
	BetaUnits              float64         `yaml:"beta_units"`
	HighRiskThreshold      float64         `yaml:"high_risk_threshold"`
	HighRiskEdgeMultiplier float64         `yaml:"high_risk_edge_multiplier"`
	MaxAvailabilityRisk    float64         `yaml:"max_availability_risk"`
	FallbackWeights        FallbackWeights `yaml:"fallback_weights"`
}

// FallbackWeights synthesize total_risk when a player has no risk score.
type FallbackWeights struct {
	Injury     float64 `yaml:"injury"`
	Minutes    float64 `yaml:"minutes"`
	Volatility float64 `yaml:"volatility"`
}

// CircuitBreakerSettings halt order placement on repeated failure.
type CircuitBreakerSettings struct {
	MaxConsecutiveErrors int64   `yaml:"max_consecutive_errors"`
	DailyLossLimit       float64 `yaml:"daily_loss_limit"`
}

// LogSettings configure pkg/logger.
type LogSettings struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ServerSettings configure the read-only status server.
type ServerSettings struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Settings is the single configuration value for a pipeline run. It is
// constructed once in main and passed into every component; nothing reads
// config from globals.
type Settings struct {
	DataDir        string                 `yaml:"data_dir"`
	Exchange       ExchangeSettings       `yaml:"exchange"`
	DBB2API        DBB2APISettings        `yaml:"dbb2_api"`
	EVThresholds   EVThresholds           `yaml:"ev_thresholds"`
	Kelly          KellySettings          `yaml:"kelly"`
	RiskOverlay    RiskOverlaySettings    `yaml:"risk_overlay"`
	CircuitBreaker CircuitBreakerSettings `yaml:"circuit_breaker"`
	Log            LogSettings            `yaml:"log"`
	Server         ServerSettings         `yaml:"server"`
}

// Load reads settings from a YAML file, applies defaults and env overrides,
// and validates. Configuration errors are fatal before any file I/O.
func Load(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read settings file %s", path)
	}

	s := &Settings{}
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, errors.Wrapf(err, "parse settings file %s", path)
	}

	s.applyDefaults()
	s.applyEnvOverrides()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.Exchange.TimeInForceSeconds == 0 {
		s.Exchange.TimeInForceSeconds = 3600
	}
	if s.Exchange.RequestTimeoutSeconds == 0 {
		s.Exchange.RequestTimeoutSeconds = 30
	}
	if s.DBB2API.TimeoutSeconds == 0 {
		s.DBB2API.TimeoutSeconds = 30
	}
	if s.DBB2API.ProjectionsEndpoint == "" {
		s.DBB2API.ProjectionsEndpoint = "/v2/projections"
	}
	if s.EVThresholds.MaxBetsPerDay == 0 {
		s.EVThresholds.MaxBetsPerDay = 10
	}
	if s.Kelly.Fraction == 0 {
		s.Kelly.Fraction = 0.25
	}
	if s.Kelly.MinUnits == 0 {
		s.Kelly.MinUnits = 0.5
	}
	if s.Kelly.MaxUnits == 0 {
		s.Kelly.MaxUnits = 3.0
	}
	if s.RiskOverlay.Mode == "" {
		s.RiskOverlay.Mode = "observe"
	}
	if s.RiskOverlay.HighRiskEdgeMultiplier == 0 {
		s.RiskOverlay.HighRiskEdgeMultiplier = 1.0
	}
	if s.RiskOverlay.MaxAvailabilityRisk == 0 {
		s.RiskOverlay.MaxAvailabilityRisk = 0.85
	}
	if s.RiskOverlay.HighRiskThreshold == 0 {
		s.RiskOverlay.HighRiskThreshold = 0.7
	}
	zero := FallbackWeights{}
	if s.RiskOverlay.FallbackWeights == zero {
		s.RiskOverlay.FallbackWeights = FallbackWeights{Injury: 0.5, Minutes: 0.3, Volatility: 0.2}
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if s.Log.MaxSizeMB == 0 {
		s.Log.MaxSizeMB = 100
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = 3
	}
	if s.Log.MaxAgeDays == 0 {
		s.Log.MaxAgeDays = 7
	}
	if s.Server.ListenAddr == "" {
		s.Server.ListenAddr = ":8787"
	}
}

func (s *Settings) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvDBB2APIKey)); v != "" {
		s.DBB2API.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBB2BaseURL)); v != "" {
		s.DBB2API.BaseURL = v
	}
}

// Validate enforces the required keys. Missing required settings abort the
// process before any file I/O happens.
func (s *Settings) Validate() error {
	if len(s.Exchange.IncludeSources) == 0 {
		return errors.New("config: exchange.include_sources is required")
	}
	if s.Exchange.TimeInForceSeconds <= 0 {
		return errors.New("config: exchange.time_in_force_seconds must be positive")
	}
	if s.Kelly.Bankroll <= 0 && !s.Kelly.UseLedger {
		return errors.New("config: kelly.bankroll must be positive when kelly.use_ledger is off")
	}
	if s.Kelly.Fraction <= 0 || s.Kelly.Fraction > 1 {
		return errors.New("config: kelly.fraction must be in (0, 1]")
	}
	if s.Kelly.MinUnits > s.Kelly.MaxUnits {
		return errors.New("config: kelly.min_units must not exceed kelly.max_units")
	}
	if m := s.RiskOverlay.Mode; m != "observe" && m != "enforce" {
		return errors.Errorf("config: risk_overlay.mode must be observe or enforce, got %q", m)
	}
	if s.EVThresholds.TakeEdgePct <= 0 {
		return errors.New("config: ev_thresholds.take_edge_pct must be positive")
	}
	return nil
}

// IsDemoOnly reports whether a source is marked simulation-only.
func (s *Settings) IsDemoOnly(source string) bool {
	for _, d := range s.Exchange.DemoOnlySources {
		if strings.EqualFold(d, source) {
			return true
		}
	}
	return false
}

// MinEdgePct is the gate for emitting a candidate at all: the make
// threshold when set, otherwise the take threshold.
func (s *Settings) MinEdgePct() float64 {
	if s.EVThresholds.MakeEdgePct > 0 && s.EVThresholds.MakeEdgePct < s.EVThresholds.TakeEdgePct {
		return s.EVThresholds.MakeEdgePct
	}
	return s.EVThresholds.TakeEdgePct
}
