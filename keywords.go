package payrollinspect

import "strings"

// KeywordSet matches a header when its lowercased text contains any keyword.
// Matching is substring based, so "net" also matches "Cabinet".
type KeywordSet []string

var (
	AttendanceKeywords = KeywordSet{"attendance", "present", "absent", "working", "days"}
	SalaryKeywords     = KeywordSet{"salary", "basic", "hra", "allowance", "gross", "net", "deduction"}
)

func (ks KeywordSet) Match(header string) bool {
	lower := strings.ToLower(header)
	for _, k := range ks {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
