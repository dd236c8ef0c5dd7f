package engine

import "strings"

// Day periods used by the crowd model. Hour boundaries follow the city's
// observed foot-traffic pattern: morning 6-12, afternoon 12-18, evening 18-22,
// night otherwise.
type dayPeriod int

const (
	periodNight dayPeriod = iota
	periodMorning
	periodAfternoon
	periodEvening
)

func periodForHour(hour int) dayPeriod {
	switch {
	case hour >= 6 && hour < 12:
		return periodMorning
	case hour >= 12 && hour < 18:
		return periodAfternoon
	case hour >= 18 && hour < 22:
		return periodEvening
	default:
		return periodNight
	}
}

// intensity is the base crowd multiplier for a period, before the location
// category factor is applied.
func (p dayPeriod) intensity() float64 {
	switch p {
	case periodMorning:
		return 0.7
	case periodAfternoon:
		return 0.9
	case periodEvening:
		return 1.0
	default:
		return 0.3
	}
}

// locationCategory is one row of the classifier table. The first category
// whose keyword matches the location name wins; order below is the priority
// order, not text position.
type locationCategory struct {
	name     string
	keywords []string
	weight   float64 // multiplicative risk factor
	slaHours int     // default SLA duration when the bin has none
	crowd    func(p dayPeriod) float64
}

var locationCategories = []locationCategory{
	{
		name:     "park",
		keywords: []string{"park", "beach", "tourist"},
		weight:   1.2,
		slaHours: 12,
		crowd:    func(dayPeriod) float64 { return 1.3 },
	},
	{
		name:     "residential",
		keywords: []string{"residential", "apartment"},
		weight:   1.1,
		slaHours: 24,
		crowd:    func(dayPeriod) float64 { return 0.9 },
	},
	{
		name:     "office",
		keywords: []string{"office", "commercial"},
		weight:   0.9,
		slaHours: 36,
		crowd: func(p dayPeriod) float64 {
			if p == periodMorning || p == periodAfternoon {
				return 1.2
			}
			return 0.6
		},
	},
	{
		name:     "shopping",
		keywords: []string{"shopping", "mall", "market"},
		weight:   1.0,
		slaHours: 24,
		crowd:    func(dayPeriod) float64 { return 1.4 },
	},
	{
		name:     "food",
		keywords: []string{"restaurant", "cafe", "food"},
		weight:   1.0,
		slaHours: 24,
		crowd: func(p dayPeriod) float64 {
			if p == periodAfternoon || p == periodEvening {
				return 1.5
			}
			return 0.8
		},
	},
}

var defaultCategory = locationCategory{
	name:     "general",
	weight:   1.0,
	slaHours: 24,
	crowd:    func(dayPeriod) float64 { return 1.0 },
}

func classifyLocation(locationName string) locationCategory {
	name := strings.ToLower(locationName)
	for _, cat := range locationCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(name, kw) {
				return cat
			}
		}
	}
	return defaultCategory
}

// LocationProfile is the classifier output for one location name at one hour
// of day.
type LocationProfile struct {
	Category        string  `json:"category"`
	Weight          float64 `json:"weight"`
	SLAHours        int     `json:"sla_hours"`
	CrowdMultiplier float64 `json:"crowd_multiplier"`
	CrowdBoost      int     `json:"crowd_boost"`
	CrowdLabel      string  `json:"crowd_label"`
}

// ClassifyLocation derives the location weight, default SLA duration and
// crowd adjustment for a free-text location name at the given hour of day.
func ClassifyLocation(locationName string, hour int) LocationProfile {
	cat := classifyLocation(locationName)
	multiplier := crowdMultiplier(cat, hour)
	return LocationProfile{
		Category:        cat.name,
		Weight:          cat.weight,
		SLAHours:        cat.slaHours,
		CrowdMultiplier: multiplier,
		CrowdBoost:      crowdBoostFromMultiplier(multiplier),
		CrowdLabel:      crowdLabelFromMultiplier(multiplier),
	}
}

// LocationWeight returns the multiplicative risk factor for a location name.
func LocationWeight(locationName string) float64 {
	return classifyLocation(locationName).weight
}

// DefaultSLADuration returns the default SLA duration in hours for a bin
// without an explicit one, derived from its location category.
func DefaultSLADuration(locationName string) int {
	return classifyLocation(locationName).slaHours
}

func crowdMultiplier(cat locationCategory, hour int) float64 {
	p := periodForHour(hour)
	multiplier := p.intensity() * cat.crowd(p)
	if multiplier < 0.3 {
		multiplier = 0.3
	}
	if multiplier > 1.5 {
		multiplier = 1.5
	}
	return multiplier
}

// CrowdMultiplier returns the expected foot-traffic multiplier in [0.3, 1.5]
// for a location at the given hour of day.
func CrowdMultiplier(locationName string, hour int) float64 {
	return crowdMultiplier(classifyLocation(locationName), hour)
}

func crowdBoostFromMultiplier(multiplier float64) int {
	if multiplier > 1.2 {
		return 12
	}
	if multiplier > 1.0 {
		return 6
	}
	if multiplier < 0.7 {
		return -5
	}
	return 0
}

// CrowdRiskBoost discretizes the crowd multiplier into an additive risk
// adjustment.
func CrowdRiskBoost(locationName string, hour int) int {
	return crowdBoostFromMultiplier(CrowdMultiplier(locationName, hour))
}

func crowdLabelFromMultiplier(multiplier float64) string {
	if multiplier > 1.2 {
		return "High"
	}
	if multiplier > 1.0 {
		return "Medium"
	}
	if multiplier > 0.7 {
		return "Low"
	}
	return "Very Low"
}

// CrowdIntensityLabel returns a display label for the expected foot traffic.
func CrowdIntensityLabel(locationName string, hour int) string {
	return crowdLabelFromMultiplier(CrowdMultiplier(locationName, hour))
}
