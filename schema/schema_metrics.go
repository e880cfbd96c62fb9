package schema

// ThresholdDefinition describes one tunable threshold for display.
type ThresholdDefinition struct {
	Key     string  `json:"key"`
	Purpose string  `json:"purpose"`
	Value   float64 `json:"value"`
}

// ThresholdsRenderModel contains everything needed to display the active thresholds.
type ThresholdsRenderModel struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Thresholds       []ThresholdDefinition `json:"thresholds"`
	SentimentWeights []ThresholdDefinition `json:"sentiment_weights"`
	Statuses         []StatusDefinition    `json:"statuses"`
}
