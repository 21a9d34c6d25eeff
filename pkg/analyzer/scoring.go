package analyzer

// Scoring constants for project type detection
const (
	// ScoreIndicatorFile is a file that strongly implies a project type
	// Examples: hardhat.config.js, mkdocs.yml, index.html
	ScoreIndicatorFile = 3.0

	// ScoreIndicatorDir is a top-level directory named after a concern
	// Examples: contracts/, notebooks/, android/
	ScoreIndicatorDir = 2.0

	// ScoreDependency is a manifest dependency typical of a project type
	// Examples: react in package.json, express in package.json
	ScoreDependency = 3.0

	// ScoreFilePattern is a file pattern anywhere in the scanned tree
	// Examples: *.ipynb, *.sol
	ScoreFilePattern = 1.0
)

// Complexity thresholds
const (
	complexityHigh   = 8
	complexityMedium = 4
)
