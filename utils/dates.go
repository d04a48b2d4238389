// utils/dates.go
package utils

import (
	"strings"
	"time"
)

// DateInputLayout is the value format of <input type="date">.
const DateInputLayout = "2006-01-02"

func ParseDateInput(s string) (time.Time, error) {
	return time.Parse(DateInputLayout, strings.TrimSpace(s))
}
