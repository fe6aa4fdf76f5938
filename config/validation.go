package config

import "fmt"

func validate(c *Config) error {
	switch c.Extract.AnchorStrategy {
	case AnchorKeyword, AnchorPercent:
	default:
		return fmt.Errorf("unknown anchor strategy %q (want %s or %s)",
			c.Extract.AnchorStrategy, AnchorKeyword, AnchorPercent)
	}
	switch c.Extract.TotalSelection {
	case TotalNearest, TotalLargest:
	default:
		return fmt.Errorf("unknown total selection %q (want %s or %s)",
			c.Extract.TotalSelection, TotalNearest, TotalLargest)
	}
	if c.Extract.RowToleranceScale <= 0 {
		return fmt.Errorf("row_tolerance_scale must be positive, got %v", c.Extract.RowToleranceScale)
	}
	if c.Extract.NeighborhoodScale < 1 {
		return fmt.Errorf("neighborhood_scale must be >= 1, got %v", c.Extract.NeighborhoodScale)
	}
	if c.Extract.MinAnchorConfidence < c.Extract.MinRowConfidence {
		return fmt.Errorf("min_anchor_confidence (%v) must not be below min_row_confidence (%v)",
			c.Extract.MinAnchorConfidence, c.Extract.MinRowConfidence)
	}
	if c.Engine.PageSegMode < 0 || c.Engine.PageSegMode > 13 {
		return fmt.Errorf("page_seg_mode out of range: %d", c.Engine.PageSegMode)
	}
	if c.Engine.RecognitionTimeoutSec < -1 {
		return fmt.Errorf("recognition_timeout_sec must be -1 (disabled) or a positive number of seconds")
	}
	return nil
}
