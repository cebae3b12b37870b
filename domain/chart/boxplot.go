package chart

// Box is the five-number summary of one category's distribution
type Box struct {
	Label        string
	N            int
	Q1           float64
	Median       float64
	Q3           float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64
}

// BoxPlot is everything a renderer needs to draw one chart
type BoxPlot struct {
	Title  string
	XLabel string
	YLabel string
	YMin   float64
	YMax   float64
	Boxes  []Box
}
