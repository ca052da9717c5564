// Package config handles configuration loading and merging for lta.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--result-dir, --annotations, --theme, --mail-to, etc.)
//  2. Environment variables (LTA_RESULT_DIR, LTA_TEST_GROUP, NO_COLOR)
//  3. YAML config file (.lta.yaml in local directory or ~/.config/lta/.lta.yaml)
//  4. Hardcoded defaults
//
// # Color Policy
//
// The color_policy map decides, per bucket, whether growth in that bucket is
// shown as a regression (red) or an improvement (green):
//
//	color_policy:
//	  whole: improvement
//	  skip: regression
//	  nonskip: regression
//
// # Environment Variables
//
//   - LTA_RESULT_DIR: snapshot directory
//   - LTA_TEST_GROUP: test group name used in mail subjects and history
//   - NO_COLOR: set to any value to disable terminal colors
//   - LTA_DEBUG: set to any non-empty value to enable debug logging
package config
