// Package domain models NOAA Storm Events Database records and the
// transformations that turn them into per-event-type impact aggregates.
//
// # Data Source
//
// Records originate from the NOAA National Climatic Data Center (NCDC) Storm
// Events Database, published as a single bzip2-compressed CSV covering 1950
// to the present. Each row is one reported weather event with casualty counts
// and exponent-coded damage figures.
//
// # Storm Events Conventions
//
// Begin date ("BGN_DATE" column):
//
//	"<month>/<day>/<year> <hour>:<minute>:<second>", e.g. "4/18/1996 0:00:00".
//	Only the year is used by this analysis. Rows with an unparseable date
//	carry year 0, which the cutoff filter later drops; the loader counts
//	these so the loss is visible.
//
// Event type ("EVTYPE" column):
//
//	Free text entered by hand over five decades. The official vocabulary
//	(NWS Directive 10-1605) has 48 event types, but the raw column contains
//	close to a thousand distinct spellings: abbreviations ("TSTM WIND"),
//	qualifiers ("HURRICANE OPAL", "RIVER FLOODING"), casing and whitespace
//	noise. See [CanonicalizeLabel] for the rewrite rules and [Matcher] for
//	the fuzzy-match step that maps the remainder onto the vocabulary.
//
// Damage encoding ("PROPDMG"/"PROPDMGEXP" and "CROPDMG"/"CROPDMGEXP"):
//
//	Damage is a decimal magnitude plus a single-character exponent code:
//	  K = thousands, M = millions, B = billions
//	  digits 0-8 = powers of ten (legacy entry style)
//	  blank, "+", "-", "?" = no valid exponent recorded
//	The code-to-multiplier mapping is an input table, not hardcoded. A code
//	with no table entry yields an undefined (NaN) dollar value, never zero
//	and never the raw magnitude, since either would silently misstate damage.
//
// # The 1996 Cutoff
//
// All 48 event types have only been recorded since January 1996; earlier
// years cover tornadoes and a few wind/hail categories exclusively. Comparing
// event types across the full 1950- range would bias every ranking toward
// the long-recorded categories, so the analysis defaults to year >= 1996.
// Records with no recorded casualties and no recorded damage carry no signal
// for an impact ranking and are dropped alongside.
package domain
