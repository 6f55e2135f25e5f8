package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Board: Board{
			GridSize:   20,
			CanvasSize: 400,
		},
		Timing: Timing{
			TickMS: 100,
		},
		Rules: Rules{
			InitialLength: 3,
			FoodReward:    10,
		},
		Theme: Theme{
			Background: "#e8e8e8",
			GridLine:   "#dddddd",
			SnakeHead:  "#2E7D32",
			SnakeBody:  "#4CAF50",
			Eye:        "#ffffff",
			Food:       "#F44336",
			Stem:       "#795548",
		},
		Consent: Consent{
			ConsentDays:       365,
			SponsorClosedDays: 1,
			SponsorDelayMS:    3000,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
