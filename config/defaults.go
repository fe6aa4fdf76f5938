package config

const (
	defaultLogLevel = "info"

	defaultEngineLanguage = "eng"
	// Character set of the trading interface: digits, letters and the
	// punctuation that appears in pairs, amounts and percentages.
	defaultEngineWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.-%/+:()[] "
	defaultEnginePSM       = 6
	defaultEngineTimeout   = 30

	AnchorKeyword = "anchor_keyword"
	AnchorPercent = "anchor_percent"
	TotalNearest  = "total_nearest"
	TotalLargest  = "total_largest"

	defaultAnchorStrategy = AnchorKeyword
	defaultTotalSelection = TotalNearest

	defaultRowToleranceScale   = 2.0
	defaultNeighborhoodScale   = 1.5
	defaultMinRowConfidence    = 20
	defaultMinAnchorConfidence = 30
)

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultLogLevel
	}
	if c.Engine.Language == "" {
		c.Engine.Language = defaultEngineLanguage
	}
	if c.Engine.Whitelist == "" {
		c.Engine.Whitelist = defaultEngineWhitelist
	}
	if c.Engine.PageSegMode == 0 {
		c.Engine.PageSegMode = defaultEnginePSM
	}
	if c.Engine.RecognitionTimeoutSec == 0 {
		c.Engine.RecognitionTimeoutSec = defaultEngineTimeout
	}
	if c.Extract.AnchorStrategy == "" {
		c.Extract.AnchorStrategy = defaultAnchorStrategy
	}
	if c.Extract.TotalSelection == "" {
		c.Extract.TotalSelection = defaultTotalSelection
	}
	if c.Extract.RowToleranceScale == 0 {
		c.Extract.RowToleranceScale = defaultRowToleranceScale
	}
	if c.Extract.NeighborhoodScale == 0 {
		c.Extract.NeighborhoodScale = defaultNeighborhoodScale
	}
	if c.Extract.MinRowConfidence == 0 {
		c.Extract.MinRowConfidence = defaultMinRowConfidence
	}
	if c.Extract.MinAnchorConfidence == 0 {
		c.Extract.MinAnchorConfidence = defaultMinAnchorConfidence
	}
}
