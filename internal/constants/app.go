// Package constants provides shared constants for the raspored application.
package constants

// AppIdentifier marks artifacts produced by this application, such as
// exported calendar events.
const AppIdentifier = "Raspored"

// ICSProductID identifies this application in exported iCalendar files.
const ICSProductID = "-//raspored//schedule-calendar//EN"

// DefaultWeekLabels are the display labels for the days of the week,
// Monday first. They can be overridden in the configuration file.
var DefaultWeekLabels = [7]string{"pon", "uto", "sri", "čet", "pet", "sub", "ned"}
