package mood

import "sort"

// Point is a dated sample of the three tracked scores.
type Point struct {
	Date       string
	Motivation float64
	Mood       float64
	Wellbeing  float64
}

// ChartSeries holds index-aligned per-day averages for charting.
type ChartSeries struct {
	Labels     []string  `json:"labels"`
	Motivation []float64 `json:"motivation"`
	Mood       []float64 `json:"mood"`
	Wellbeing  []float64 `json:"wellbeing"`
}

// Len returns the number of days in the series
func (s ChartSeries) Len() int {
	return len(s.Labels)
}

type bucket struct {
	count                       int
	motivation, mood, wellbeing float64
}

// Aggregate groups points by exact date string and averages each score per
// group. Labels come out in ascending order; days without points are absent.
func Aggregate(points []Point) ChartSeries {
	buckets := make(map[string]*bucket)
	for _, p := range points {
		b, ok := buckets[p.Date]
		if !ok {
			b = &bucket{}
			buckets[p.Date] = b
		}
		b.count++
		b.motivation += p.Motivation
		b.mood += p.Mood
		b.wellbeing += p.Wellbeing
	}

	labels := make([]string, 0, len(buckets))
	for date := range buckets {
		labels = append(labels, date)
	}
	sort.Strings(labels)

	series := ChartSeries{
		Labels:     labels,
		Motivation: make([]float64, len(labels)),
		Mood:       make([]float64, len(labels)),
		Wellbeing:  make([]float64, len(labels)),
	}
	for i, date := range labels {
		b := buckets[date]
		n := float64(b.count)
		series.Motivation[i] = b.motivation / n
		series.Mood[i] = b.mood / n
		series.Wellbeing[i] = b.wellbeing / n
	}
	return series
}

// AggregateEntries is Aggregate over stored entries.
func AggregateEntries(entries []*Entry) ChartSeries {
	points := make([]Point, len(entries))
	for i, e := range entries {
		points[i] = e.Point()
	}
	return Aggregate(points)
}

// AggregateWindow aggregates only the points whose date lies in [from, to].
// ISO dates compare correctly as strings.
func AggregateWindow(points []Point, from, to string) ChartSeries {
	kept := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Date >= from && p.Date <= to {
			kept = append(kept, p)
		}
	}
	return Aggregate(kept)
}
