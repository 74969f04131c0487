package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"20060102",
}

// ParseLooseTime parses the common date and time layouts used in config files
func ParseLooseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("can not parse time %q", s)
}

// LooseFormatTime accepts both dates and date times from the config
type LooseFormatTime time.Time

func (t *LooseFormatTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	tt, err := ParseLooseTime(s)
	if err != nil {
		return err
	}

	*t = LooseFormatTime(tt)
	return nil
}

func (t LooseFormatTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339))
}

func (t LooseFormatTime) Time() time.Time {
	return time.Time(t)
}
