package mapview

type Styler struct {
	Color      string `json:"color,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

// StyleRule applies its stylers to every map element matching FeatureType and ElementType.
// An empty FeatureType matches all features.
type StyleRule struct {
	FeatureType string   `json:"featureType,omitempty"`
	ElementType string   `json:"elementType,omitempty"`
	Stylers     []Styler `json:"stylers"`
}

func colorRule(featureType, elementType, color string) StyleRule {
	return StyleRule{FeatureType: featureType, ElementType: elementType, Stylers: []Styler{{Color: color}}}
}

var clinicTheme = []StyleRule{
	colorRule("", "geometry", "#f5f5f5"),
	{ElementType: "labels.icon", Stylers: []Styler{{Visibility: "off"}}},
	colorRule("", "labels.text.fill", "#ffffff"),
	colorRule("", "labels.text.stroke", "#000000"),
	colorRule("administrative.land_parcel", "labels.text.fill", "#bdbdbd"),
	colorRule("poi", "geometry", "#eeeeee"),
	colorRule("poi", "labels.text.fill", "#757575"),
	colorRule("poi.park", "geometry", "#e5e5e5"),
	colorRule("poi.park", "labels.text.fill", "#9e9e9e"),
	colorRule("road", "geometry", "#6b6166"),
	colorRule("road.arterial", "labels.text.fill", "#ffffff"),
	colorRule("road.highway", "geometry", "#dadada"),
	colorRule("road.highway", "labels.text.fill", "#ffffff"),
	colorRule("road.local", "labels.text.fill", "#ffffff"),
	colorRule("transit.line", "geometry", "#e5e5e5"),
	colorRule("transit.station", "geometry", "#eeeeee"),
	colorRule("water", "geometry", "#c9c9c9"),
	colorRule("water", "labels.text.fill", "#ffffff"),
}

// ClinicTheme returns a fresh copy of the clinic page's ordered style rules.
func ClinicTheme() []StyleRule {
	return CopyStyles(clinicTheme)
}

func CopyStyles(rules []StyleRule) []StyleRule {
	if rules == nil {
		return nil
	}
	out := make([]StyleRule, len(rules))
	for i, rule := range rules {
		out[i] = rule
		out[i].Stylers = append([]Styler(nil), rule.Stylers...)
	}
	return out
}
