package repositories

import "regexp"

// regexQuote escapes user input before embedding it in a Mongo $regex.
func regexQuote(s string) string {
	return regexp.QuoteMeta(s)
}
