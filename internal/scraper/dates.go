package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// turkishMonths maps lowercase Turkish month names to month numbers.
var turkishMonths = map[string]time.Month{
	"ocak":    time.January,
	"şubat":   time.February,
	"subat":   time.February,
	"mart":    time.March,
	"nisan":   time.April,
	"mayıs":   time.May,
	"mayis":   time.May,
	"haziran": time.June,
	"temmuz":  time.July,
	"ağustos": time.August,
	"agustos": time.August,
	"eylül":   time.September,
	"eylul":   time.September,
	"ekim":    time.October,
	"kasım":   time.November,
	"kasim":   time.November,
	"aralık":  time.December,
	"aralik":  time.December,
}

var turkishDatePattern = regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)\s+(\d{4})`)

// ParseSiteDate parses the date strings the site's APIs emit. Known forms
// are epoch milliseconds, RFC 3339, "2 Ocak 2024" style Turkish dates, and
// "02.01.2024". Returns the zero time when nothing matches.
func ParseSiteDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 1e11 {
		return time.UnixMilli(ms)
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02.01.2006",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	if m := turkishDatePattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if month, ok := turkishMonths[strings.ToLower(m[2])]; ok {
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		}
	}

	return time.Time{}
}
