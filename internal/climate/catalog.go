package climate

// Field catalog per resolution and category, in the column order of the
// published files (after the leading station id and timestamp columns).
// Quality-level columns carry the QN code of the following columns.
//
// Erroneous or suspicious values are published as -999 and never stored.

var fields10Minutes = map[Category][]Field{
	CategoryAirTemperature: {
		{"air_temperature_quality_level", KindInt},
		{"pressure_station", KindReal},
		{"air_temperature_200", KindReal},
		{"air_temperature_005", KindReal},
		{"relative_humidity_200", KindReal},
		{"dewpoint_temperature_200", KindReal},
	},
	CategorySolar: {
		{"solar_quality_level", KindInt},
		{"solar_dhi", KindReal},
		{"solar_ghi", KindReal},
		{"solar_sunshine", KindReal},
		{"solar_atmosphere", KindReal},
	},
}

var fieldsHourly = map[Category][]Field{
	CategoryAirTemperature: {
		{"air_temperature_quality_level", KindInt},
		{"air_temperature_200", KindReal},
		{"relative_humidity_200", KindReal},
	},
	CategorySoilTemperature: {
		{"soil_temperature_quality_level", KindInt},
		{"soil_temperature_002", KindReal},
		{"soil_temperature_005", KindReal},
		{"soil_temperature_010", KindReal},
		{"soil_temperature_020", KindReal},
		{"soil_temperature_050", KindReal},
		{"soil_temperature_100", KindReal},
	},
	CategoryPrecipitation: {
		{"precipitation_quality_level", KindInt},
		{"precipitation_height", KindReal},
		{"precipitation_fallen", KindInt},
		{"precipitation_form", KindInt},
	},
	CategorySun: {
		{"sun_quality_level", KindInt},
		{"sun_duration", KindReal},
	},
	CategoryPressure: {
		{"pressure_quality_level", KindInt},
		{"pressure_msl", KindReal},
		{"pressure_station", KindReal},
	},
	CategoryWind: {
		{"wind_quality_level", KindInt},
		{"wind_speed", KindReal},
		{"wind_direction", KindInt},
	},
	CategoryCloudiness: {
		{"cloudiness_quality_level", KindInt},
		{"cloudiness_source", KindText},
		{"cloudiness_total_cover", KindInt},
	},
	CategoryVisibility: {
		{"visibility_quality_level", KindInt},
		{"visibility_source", KindText},
		{"visibility_value", KindInt},
	},
	CategorySolar: {
		{"solar_quality_level", KindInt},
		{"solar_atmosphere", KindReal},
		{"solar_dhi", KindReal},
		{"solar_ghi", KindReal},
		{"solar_sunshine", KindInt},
		{"solar_zenith", KindReal},
		{"solar_end_of_interval", KindTimestamp},
	},
}

var fieldsDaily = map[Category][]Field{
	CategoryDailyObservations: {
		{"daily_quality_level_3", KindInt},
		{"wind_gust_max", KindReal},
		{"wind_velocity_mean", KindReal},
		{"daily_quality_level_4", KindInt},
		{"precipitation_height", KindReal},
		{"precipitation_form", KindInt},
		{"sunshine_duration", KindReal},
		{"snow_depth", KindReal},
		{"cloud_cover", KindReal},
		{"vapor_pressure", KindReal},
		{"pressure", KindReal},
		{"temperature", KindReal},
		{"humidity", KindReal},
		{"temperature_max_200", KindReal},
		{"temperature_min_200", KindReal},
		{"temperature_min_005", KindReal},
	},
	CategorySoilTemperature: {
		{"soil_temperature_quality_level", KindInt},
		{"soil_temperature_002", KindReal},
		{"soil_temperature_005", KindReal},
		{"soil_temperature_010", KindReal},
		{"soil_temperature_020", KindReal},
		{"soil_temperature_050", KindReal},
	},
	CategorySolar: {
		{"solar_quality_level", KindInt},
		{"solar_atmosphere", KindReal},
		{"solar_dhi", KindReal},
		{"solar_ghi", KindReal},
		{"solar_sunshine", KindReal},
	},
}

var catalog = map[Resolution]map[Category][]Field{
	Resolution10Minutes: fields10Minutes,
	ResolutionHourly:    fieldsHourly,
	ResolutionDaily:     fieldsDaily,
}

// Categories returns the categories published for a resolution, in stable
// name order.
func Categories(res Resolution) []Category {
	cats := catalogCategories(res)
	return cats
}

func catalogCategories(res Resolution) []Category {
	m := catalog[res]
	out := make([]Category, 0, len(m))
	for _, c := range []Category{
		CategoryAirTemperature, CategoryCloudiness, CategoryDailyObservations,
		CategoryPrecipitation, CategoryPressure, CategorySoilTemperature,
		CategorySolar, CategorySun, CategoryVisibility, CategoryWind,
	} {
		if _, ok := m[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Fields returns the published columns of a category at a resolution, or
// nil when the category does not exist there.
func Fields(res Resolution, cat Category) []Field {
	return catalog[res][cat]
}

// HasCategory reports whether a category is published at a resolution.
func HasCategory(res Resolution, cat Category) bool {
	_, ok := catalog[res][cat]
	return ok
}

// FieldNames returns just the column names of a category at a resolution.
func FieldNames(res Resolution, cat Category) []string {
	fs := Fields(res, cat)
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}
