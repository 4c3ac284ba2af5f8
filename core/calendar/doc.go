// Package calendar enumerates the meal slots of a cycle.
//
// A cycle is made of halves (weeks) of seven days with two meals per day.
// Some (day, meal) combinations can be excluded for every half, and pin
// rules force a category on matching slots. The default grid excludes
// Saturday lunch and pins Saturday dinner to "egg", giving 13 slots per
// half and 26 in total.
package calendar
