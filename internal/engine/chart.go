package engine

// ChartBar is one bar of the hourly congestion chart
type ChartBar struct {
	Hour    int  `json:"hour"`
	Score   int  `json:"score"`
	HasData bool `json:"has_data"`
}

// ChartSeries returns one bar per service hour, with 0 for hours without data
func ChartSeries(hourly HourlyCongestion) []ChartBar {
	bars := make([]ChartBar, 0, LastServiceHour-FirstServiceHour+1)
	for h := FirstServiceHour; h <= LastServiceHour; h++ {
		score, ok := hourly[h]
		bars = append(bars, ChartBar{Hour: h, Score: score, HasData: ok})
	}
	return bars
}
