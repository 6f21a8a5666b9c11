// Package domain models the campus weather dashboard data: the resource
// panel, the HRRR forecast loop, and observer precipitation reports.
//
// # Resource Panel
//
// The dashboard embeds a fixed set of externally hosted weather products.
// Each panel entry is static configuration (name, label, URL, render kind);
// the service never fetches or transforms the embedded content. Refresh of
// the underlying imagery is owned entirely by the upstream provider. The
// built-in set matches the products the page has always shown: the KCXX
// radar loop, TropicalTidbits GFS/ECMWF model imagery, PivotalWeather HRRR
// imagery, and the campus mesonet station page.
//
// # Forecast Loop
//
// Forecast data comes from the Open-Meteo forecast API using the gfs_hrrr
// model for the campus coordinates (44.5337N, 72.0032W), with hourly
// variables temperature_2m, cloud_cover, wind_speed_10m, surface_temperature
// and precipitation in °F, mph and inches. A loop is twelve hourly frames;
// each frame carries the forecast hour, valid time, value, and a display
// color drawn from per-variable threshold tables:
//
//	Temperature (°F):  <0 | <20 | <32 | <50 | <70 | <85 | ≥85
//	Precipitation ("): trace <0.01 | <0.1 | <0.25 | <0.5 | <1.0 | ≥1.0
//	Cloud cover (%):   clear <20 | partly <50 | mostly <80 | overcast
//	Wind (mph):        <5 | <10 | <15 | <20 | <25 | ≥25
//
// The thresholds and hex colors are the station's long-standing display
// scale; archived loops are rendered with the same tables, so they must not
// drift.
//
// # Precipitation Reports
//
// Observers submit daily precipitation reports (gauge catch, new snowfall,
// snowfall water equivalent, total snow depth, snowpack water equivalent,
// notes) for the campus CoCoRaHS station. The report date is the only
// required field. Amount fields are free-text strings because CoCoRaHS
// accepts trace markers ("T") alongside decimal inches; validation only
// rejects values that are neither.
//
// # ID Generation
//
// Report IDs are deterministic SHA-256 hashes of station|date|fields so that
// resubmitting the same report produces the same ID and the report log can
// upsert idempotently. See [NewReportID].
package domain
