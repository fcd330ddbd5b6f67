package redis

import (
	"bufio"
	"strconv"
	"strings"
)

// ParseInfo flattens the INFO reply into field -> value.
// Section headers ("# Server") and blank lines are skipped.
func ParseInfo(raw string) map[string]string {
	fields := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[key] = value
	}

	return fields
}

// infoInt reads a numeric INFO field; missing or malformed fields read as zero.
func infoInt(fields map[string]string, key string) int64 {
	n, err := strconv.ParseInt(fields[key], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
