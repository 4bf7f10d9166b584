package httpapi

import "regexp"

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe   = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

func validEmail(v string) bool   { return emailRe.MatchString(v) }
func validPhone(v string) bool   { return phoneRe.MatchString(v) }
func validPincode(v string) bool { return pincodeRe.MatchString(v) }
