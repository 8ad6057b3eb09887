package analytics

// problemKeywords is the closed vocabulary of recurring printer-service
// issues counted by the aggregator. Matching is case-insensitive substring
// over the order's free-text fields; this is a configuration table, not a
// text classifier.
var problemKeywords = []string{
	"paper jam",
	"toner",
	"drum",
	"fuser",
	"cartridge",
	"roller",
	"tray",
	"print quality",
	"streaks",
	"blank page",
	"network",
	"connectivity",
	"offline",
	"driver",
	"firmware",
	"scanner",
	"error code",
	"noise",
}
