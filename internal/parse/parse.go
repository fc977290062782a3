package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates such as purchase_date.
const DateLayout = "2006-01-02"

var idRe = regexp.MustCompile(`^\s*(\d+)\s*$`)

// ID parses a positive database id from a path segment or form value.
func ID(raw string) (int64, error) {
	m := idRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("invalid id: %q", raw)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", raw)
	}
	return id, nil
}

// LooseID accepts a JSON number or a numeric string. Empty input, null and "" yield ok=false.
func LooseID(raw json.RawMessage) (id int64, ok bool, err error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" || s == `""` {
		return 0, false, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, false, fmt.Errorf("invalid id: %s", s)
		}
		if strings.TrimSpace(str) == "" {
			return 0, false, nil
		}
		s = str
	}
	id, err = ID(s)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Date parses a YYYY-MM-DD calendar date as midnight UTC.
func Date(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("date has wrong format, use YYYY-MM-DD: %q", raw)
	}
	return d, nil
}
